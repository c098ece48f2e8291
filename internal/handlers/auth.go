package handlers

import (
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/auth"
	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	cookies     *auth.CookieManager
	tokens      *auth.TokenManager
	firebase    services.FirebaseVerifier
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseVerifier may be nil, in
// which case the Firebase exchange route is not registered.
func NewAuthHandler(authService *services.AuthService, tokens *auth.TokenManager, cookies *auth.CookieManager, firebaseVerifier services.FirebaseVerifier, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		tokens:      tokens,
		firebase:    firebaseVerifier,
		log:         log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	if h.firebase != nil {
		g.POST("/firebase", h.FirebaseLogin)
	}
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	session, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return h.respondWithSession(c, http.StatusCreated, "User created successfully", session)
}

// Login handles local user authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	session, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return h.respondWithSession(c, http.StatusOK, "Logged in successfully", session)
}

// Logout clears the session cookie. It succeeds with or without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookies.Clear())
	return response.Success(c, http.StatusOK, "User logged out successfully", nil)
}

// FirebaseLogin verifies a Firebase ID token and issues a local session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	identity, err := h.firebase.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		h.log.WithError(err).Warn("firebase token rejected")
		return fail(c, h.log, models.NewUnauthenticatedError("Invalid Firebase ID token"))
	}

	session, err := h.authService.LoginWithFirebase(c.Request().Context(), identity)
	if err != nil {
		return fail(c, h.log, err)
	}
	return h.respondWithSession(c, http.StatusOK, "Logged in successfully", session)
}

func (h *AuthHandler) respondWithSession(c echo.Context, status int, message string, session *services.Session) error {
	c.SetCookie(h.cookies.Session(session.Token, h.tokens.TTL()))
	return response.Success(c, status, message, echo.Map{
		"user":  session.User,
		"token": session.Token,
	})
}
