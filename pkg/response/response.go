// Package response renders the uniform JSON envelope used by every endpoint.
package response

import (
	"errors"
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Success writes {success:true, error:false, message, ...payload}.
func Success(c echo.Context, status int, message string, payload echo.Map) error {
	if status == 0 {
		status = http.StatusOK
	}
	if message == "" {
		message = "Successful"
	}
	body := echo.Map{
		"success": true,
		"error":   false,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

// Error writes {success:false, error:true, statusCode, message}.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return c.JSON(status, echo.Map{
		"success":    false,
		"error":      true,
		"statusCode": status,
		"message":    message,
	})
}

// FromError renders err through the envelope using its AppError kind.
// Anything that is not an AppError is reported as a 500.
func FromError(c echo.Context, err error) error {
	appErr := models.AsAppError(err)
	return Error(c, appErr.Status(), appErr.Message)
}

// ErrorHandler renders errors that escape handlers (unknown routes, bind
// failures, middleware rejections) in the same envelope.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal Server Error"

		var he *echo.HTTPError
		var appErr *models.AppError
		switch {
		case errors.As(err, &appErr):
			status, message = appErr.Status(), appErr.Message
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = Error(c, status, message)
		}
		if werr != nil {
			log.WithError(werr).Error("failed to write error response")
		}
	}
}
