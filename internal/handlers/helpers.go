package handlers

import (
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/middleware"
	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// getUserIDFromContext returns the id attached by the session middleware.
func getUserIDFromContext(c echo.Context) (string, error) {
	return middleware.UserID(c)
}

// normalizer is implemented by requests that trim their fields before validation.
type normalizer interface {
	Normalize()
}

// bindAndValidate decodes the request into req, normalizes it when it knows
// how, and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(req)
}

// fail renders err in the error envelope, logging server-side failures.
func fail(c echo.Context, log *logrus.Logger, err error) error {
	if models.StatusOf(err) >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
	}
	return response.FromError(c, err)
}
