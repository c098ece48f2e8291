package auth

import (
	"errors"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with secret; tokens expire after ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue generates a JWT token for the given user id
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Read verifies the signature and expiry of tokenString and returns the embedded user id.
func (m *TokenManager) Read(tokenString string) (string, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", models.NewInvalidTokenError(err)
	}
	if !token.Valid {
		return "", models.NewInvalidTokenError(errors.New("invalid token"))
	}
	if claims.UserID == "" {
		return "", models.NewUnauthenticatedError("Invalid token payload")
	}
	return claims.UserID, nil
}
