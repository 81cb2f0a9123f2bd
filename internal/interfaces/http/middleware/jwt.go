package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	PrincipalKey  = "auth_principal"
	authErrorKey  = "auth_error"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// PrincipalResolver turns a presented access token into a principal
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*identity.Principal, *auth.Claims, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	// Resolver validates tokens; required
	Resolver PrincipalResolver
	// CookieName is the session cookie checked when no Authorization header is sent
	CookieName string
	Logger     *zap.Logger
}

// Authenticate resolves the caller from a bearer token or the session cookie.
// It never rejects a request: without a valid token the request continues
// anonymously and downstream middleware decides.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cfg.CookieName)
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		principal, claims, err := cfg.Resolver.ResolvePrincipal(ctx, token)
		if err != nil {
			c.Set(authErrorKey, err)
			logResolveError(ctx, cfg.Logger, c.Request.URL.Path, err)
			c.Next()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, principal)
		ctx = identity.WithPrincipal(ctx, principal)
		ctx = logger.WithUser(ctx, principal.ID.String(), principal.Role.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// tokenErrors are rejections caused by the token itself
var tokenErrors = []error{
	auth.ErrInvalidToken,
	auth.ErrExpiredToken,
	auth.ErrInvalidClaims,
	auth.ErrTokenNotYetValid,
	auth.ErrMissingUserID,
	auth.ErrTokenBlacklisted,
}

func isTokenError(err error) bool {
	return slices.ContainsFunc(tokenErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}

func logResolveError(ctx context.Context, l *zap.Logger, path string, err error) {
	log := logger.WithLogger(ctx, l)
	if isTokenError(err) {
		log.Debug("Access token rejected", zap.String("path", path), zap.Error(err))
		return
	}
	// the revocation store is unreachable; the request continues anonymously
	log.Error("Failed to resolve principal", zap.String("path", path), zap.Error(err))
}

// RequireAuth answers 401 unless Authenticate resolved a principal
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c) != nil {
			c.Next()
			return
		}
		code, message := unauthorizedReason(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
	}
}

func unauthorizedReason(c *gin.Context) (string, string) {
	v, ok := c.Get(authErrorKey)
	if !ok {
		return dto.ErrCodeUnauthorized, "Authentication required"
	}
	err, _ := v.(error)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return dto.ErrCodeTokenRevoked, "Token has been revoked"
	case isTokenError(err):
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
	return dto.ErrCodeUnauthorized, "Authentication required"
}

// RequireRole answers 403 unless the principal holds one of roles.
// It must run after RequireAuth.
func RequireRole(log *zap.Logger, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.HasRole() && slices.Contains(roles, p.Role) {
			c.Next()
			return
		}
		logger.WithLogger(c.Request.Context(), log).Warn("API access denied",
			zap.String("path", c.Request.URL.Path),
			zap.String("role", roleOf(p)),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden,
			identity.ErrInsufficientRole.Message,
			GetRequestID(c),
		))
	}
}

func roleOf(p *identity.Principal) string {
	if p == nil {
		return ""
	}
	return p.Role.String()
}

// GetPrincipal returns the principal resolved for this request, or nil
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

// GetClaims returns the validated token claims, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
