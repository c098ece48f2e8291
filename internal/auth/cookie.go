package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie carrying the token.
const CookieName = "token"

// CookieManager builds the session cookie. Production deployments serve the
// frontend from another origin, so the cookie must be Secure with SameSite=None.
type CookieManager struct {
	Production bool
}

func NewCookieManager(production bool) *CookieManager {
	return &CookieManager{Production: production}
}

// Session returns an httpOnly cookie holding token for ttl.
func (m *CookieManager) Session(token string, ttl time.Duration) *http.Cookie {
	c := m.base()
	c.Value = token
	c.MaxAge = int(ttl.Seconds())
	c.Expires = time.Now().Add(ttl)
	return c
}

// Clear returns a cookie that removes the session from the browser.
func (m *CookieManager) Clear() *http.Cookie {
	c := m.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func (m *CookieManager) base() *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if m.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
