package handlers

import (
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/suggest"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AutocompleteRequest asks for title ("title") or caption (anything else) ideas.
type AutocompleteRequest struct {
	Prompt string `json:"prompt"`
	Field  string `json:"field"`
}

// SuggestionHandler serves caption and title suggestions
type SuggestionHandler struct {
	suggestions *suggest.Service
	log         *logrus.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(suggestions *suggest.Service, log *logrus.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, log: log}
}

// RegisterSuggestionRoutes registers the autocomplete route behind mw
func (h *SuggestionHandler) RegisterSuggestionRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/autocomplete", h.Autocomplete, mw...)
}

// Autocomplete returns suggestion candidates for a prompt
func (h *SuggestionHandler) Autocomplete(c echo.Context) error {
	var req AutocompleteRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.log, models.NewValidationError("Invalid request payload"))
	}

	suggestions, err := h.suggestions.Suggest(c.Request().Context(), req.Prompt, req.Field)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Suggestions generated successfully", echo.Map{"suggestions": suggestions})
}
