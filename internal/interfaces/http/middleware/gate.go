package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GateConfig configures the page route gate
type GateConfig struct {
	Permissions identity.RoutePermissions
	// PublicPrefixes are reachable without a session. "/" only matches exactly.
	PublicPrefixes []string
	// AnonymousPrefixes are reachable without a session but role checked with one
	AnonymousPrefixes []string
	// GuestOnlyPaths send a signed-in caller to HomePath
	GuestOnlyPaths []string

	HomePath      string
	LoginPath     string
	ForbiddenPath string
	ErrorPath     string

	Logger *zap.Logger
}

// DefaultGateConfig returns the dashboard's gate configuration
func DefaultGateConfig(log *zap.Logger) GateConfig {
	return GateConfig{
		Permissions: identity.DefaultRoutePermissions,
		PublicPrefixes: []string{
			"/", "/login", "/signup", "/forgot-password", "/reset-password",
			"/privacy", "/terms", "/401", "/403", "/500", "/503",
		},
		AnonymousPrefixes: []string{"/auth"},
		GuestOnlyPaths:    []string{"/", "/login", "/signup", "/forgot-password"},
		HomePath:          "/home",
		LoginPath:         "/login",
		ForbiddenPath:     "/403",
		ErrorPath:         "/500",
		Logger:            log,
	}
}

// IsPublic reports whether path is reachable without a session
func (cfg GateConfig) IsPublic(path string) bool {
	for _, prefix := range cfg.PublicPrefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (cfg GateConfig) isAnonymous(path string) bool {
	for _, prefix := range cfg.AnonymousPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Gate authorizes page routes using the principal set by Authenticate.
//
// Rules, in order:
//   - a signed-in caller on a guest-only page goes to HomePath
//   - an anonymous caller outside public and anonymous routes goes to LoginPath,
//     and so does an anonymous caller on "/"
//   - a signed-in caller off the public routes needs a role (else ErrorPath)
//     that the permission table allows for the path (else ForbiddenPath)
func Gate(cfg GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		p := GetPrincipal(c)
		public := cfg.IsPublic(path)

		if p != nil && slices.Contains(cfg.GuestOnlyPaths, path) {
			redirect(c, cfg.HomePath)
			return
		}

		if p == nil {
			if (!public && !cfg.isAnonymous(path)) || path == "/" {
				redirect(c, cfg.LoginPath)
				return
			}
			c.Next()
			return
		}

		if !public {
			log := logger.WithLogger(c.Request.Context(), cfg.Logger)
			if !p.HasRole() {
				log.Error("No role found in app_metadata",
					zap.String("user_id", p.ID.String()),
					zap.String("path", path),
				)
				redirect(c, cfg.ErrorPath)
				return
			}
			if !cfg.Permissions.Allows(p.Role, path) {
				log.Warn("Access denied",
					zap.String("user_id", p.ID.String()),
					zap.String("role", p.Role.String()),
					zap.String("path", path),
				)
				redirect(c, cfg.ForbiddenPath)
				return
			}
		}
		c.Next()
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
