package middleware

import (
	"strings"

	"github.com/anonto42/postcraft/backend/internal/auth"
	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "userID"

// TokenReader verifies a session token and returns the user id it carries.
type TokenReader interface {
	Read(token string) (string, error)
}

// JWTAuthMiddleware requires a session token from the "token" cookie or an
// Authorization bearer header, the cookie taking precedence. A missing token
// is rejected with 401, an invalid or expired one with 403. The user id is
// trusted as carried by the token; the user store is not consulted.
func JWTAuthMiddleware(tokens TokenReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := tokenFromRequest(c)
			if tokenString == "" {
				return models.NewUnauthenticatedError("No token provided")
			}

			userID, err := tokens.Read(tokenString)
			if err != nil {
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by JWTAuthMiddleware.
func UserID(c echo.Context) (string, error) {
	userID, ok := c.Get(UserIDKey).(string)
	if !ok || userID == "" {
		return "", models.NewUnauthenticatedError("No token provided")
	}
	return userID, nil
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
