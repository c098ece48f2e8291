package handlers

import (
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for the caller's own profile
type UserHandler struct {
	profiles *services.ProfileService
	log      *logrus.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles *services.ProfileService, log *logrus.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, log: log}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("", h.GetProfile)
	g.PUT("", h.UpdateProfile)
	g.PUT("/socials", h.SetSocials)
	g.DELETE("/socials", h.DeleteSocial)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.profiles.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Profile fetched successfully", echo.Map{"user": user})
}

// UpdateProfile updates bio, location, website or username
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.profiles.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", echo.Map{"user": user})
}

// SetSocials replaces all linked social accounts
func (h *UserHandler) SetSocials(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req models.SetSocialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.profiles.SetSocials(c.Request().Context(), userID, req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Social accounts updated successfully", echo.Map{"user": user})
}

// DeleteSocial unlinks one social platform
func (h *UserHandler) DeleteSocial(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req models.DeleteSocialRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.profiles.DeleteSocial(c.Request().Context(), userID, req.Platform)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Social account removed successfully", echo.Map{"user": user})
}
