package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testCookie = "findash_session"

// stubResolver maps tokens to principals or errors
type stubResolver struct {
	principals map[string]*identity.Principal
	errs       map[string]error
}

func (r stubResolver) ResolvePrincipal(_ context.Context, token string) (*identity.Principal, *auth.Claims, error) {
	if err, ok := r.errs[token]; ok {
		return nil, nil, err
	}
	p, ok := r.principals[token]
	if !ok {
		return nil, nil, auth.ErrInvalidToken
	}
	claims := &auth.Claims{Email: p.Email}
	claims.Subject = p.ID.String()
	claims.ID = "jti-" + token
	return p, claims, nil
}

var (
	staffPrincipal   = &identity.Principal{ID: uuid.New(), Email: "sam@example.com", Role: identity.RoleStaff}
	financePrincipal = &identity.Principal{ID: uuid.New(), Email: "fran@example.com", Role: identity.RoleFinance}
	rolelessPrincipal = &identity.Principal{ID: uuid.New(), Email: "nora@example.com"}
)

func testResolver() stubResolver {
	return stubResolver{
		principals: map[string]*identity.Principal{
			"staff-token":    staffPrincipal,
			"finance-token":  financePrincipal,
			"roleless-token": rolelessPrincipal,
		},
		errs: map[string]error{
			"expired-token": auth.ErrExpiredToken,
			"revoked-token": auth.ErrTokenBlacklisted,
			"store-down":    errors.New("dial tcp: connection refused"),
		},
	}
}

func authRouter(log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(AuthConfig{Resolver: testResolver(), CookieName: testCookie, Logger: log}))
	router.GET("/whoami", func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		if p != identity.PrincipalFromContext(c.Request.Context()) {
			c.String(http.StatusInternalServerError, "principal missing from request context")
			return
		}
		c.String(http.StatusOK, p.Email)
	})
	return router
}

func doGet(router http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(AuthHeaderKey, BearerPrefix+token) }
}

func cookie(token string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: testCookie, Value: token}) }
}

func TestAuthenticate(t *testing.T) {
	router := authRouter(zap.NewNop())

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"no credentials", nil, "anonymous"},
		{"bearer token", bearer("staff-token"), staffPrincipal.Email},
		{"session cookie", cookie("finance-token"), financePrincipal.Email},
		{"header wins over cookie", func(r *http.Request) {
			bearer("staff-token")(r)
			cookie("finance-token")(r)
		}, staffPrincipal.Email},
		{"non bearer scheme", func(r *http.Request) { r.Header.Set(AuthHeaderKey, "Basic abc") }, "anonymous"},
		{"invalid token", bearer("garbage"), "anonymous"},
		{"expired token", cookie("expired-token"), "anonymous"},
		{"revoked token", bearer("revoked-token"), "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, "/whoami", tt.setup)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestAuthenticate_SetsLoggingContext(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(AuthConfig{Resolver: testResolver(), CookieName: testCookie}))
	router.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		assert.Equal(t, financePrincipal.ID.String(), logger.GetUserID(ctx))
		assert.Equal(t, "FINANCE", logger.GetRole(ctx))
		c.Status(http.StatusNoContent)
	})

	w := doGet(router, "/whoami", bearer("finance-token"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthenticate_StoreFailureIsLoggedAndAnonymous(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := authRouter(zap.New(core))

	w := doGet(router, "/whoami", bearer("store-down"))

	assert.Equal(t, "anonymous", w.Body.String())
	entries := logs.FilterMessage("Failed to resolve principal").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestAuthenticate_TokenRejectionIsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := authRouter(zap.New(core))

	doGet(router, "/whoami", bearer("expired-token"))

	entries := logs.FilterMessage("Access token rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRequireAuth(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(AuthConfig{Resolver: testResolver(), CookieName: testCookie}), RequireAuth())
	router.GET("/api/v1/auth/me", func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).ID)
	})

	tests := []struct {
		name     string
		setup    func(*http.Request)
		wantCode int
		wantErr  string
	}{
		{"valid token", bearer("staff-token"), http.StatusOK, ""},
		{"missing token", nil, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"expired token", bearer("expired-token"), http.StatusUnauthorized, dto.ErrCodeTokenExpired},
		{"revoked token", bearer("revoked-token"), http.StatusUnauthorized, dto.ErrCodeTokenRevoked},
		{"invalid token", bearer("garbage"), http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"store failure", bearer("store-down"), http.StatusUnauthorized, dto.ErrCodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, "/api/v1/auth/me", tt.setup)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr == "" {
				assert.Equal(t, "jti-staff-token", w.Body.String())
				return
			}
			assert.Contains(t, w.Body.String(), `"code":"`+tt.wantErr+`"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	router := gin.New()
	router.Use(
		Authenticate(AuthConfig{Resolver: testResolver()}),
		RequireAuth(),
		RequireRole(zap.New(core), identity.RoleFinance),
	)
	router.GET("/api/v1/users", func(c *gin.Context) { c.String(http.StatusOK, "users") })

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"finance allowed", "finance-token", http.StatusOK},
		{"staff forbidden", "staff-token", http.StatusForbidden},
		{"no role forbidden", "roleless-token", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, "/api/v1/users", bearer(tt.token))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), dto.ErrCodeForbidden)
			}
		})
	}
	assert.Equal(t, 2, logs.FilterMessage("API access denied").Len())
}
