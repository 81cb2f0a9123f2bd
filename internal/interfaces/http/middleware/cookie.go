package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// SetSessionCookie stores the access token in the HttpOnly session cookie.
// The cookie expires together with the token.
func SetSessionCookie(c *gin.Context, cfg config.CookieConfig, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(sameSite(cfg.SameSite))
	c.SetCookie(cfg.Name, token, maxAge, cookiePath(cfg), cfg.Domain, cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, cfg config.CookieConfig) {
	c.SetSameSite(sameSite(cfg.SameSite))
	c.SetCookie(cfg.Name, "", -1, cookiePath(cfg), cfg.Domain, cfg.Secure, true)
}

func cookiePath(cfg config.CookieConfig) string {
	if cfg.Path == "" {
		return "/"
	}
	return cfg.Path
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
