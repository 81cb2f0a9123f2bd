package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	appfinance "github.com/findash/backend/internal/application/finance"
	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/infrastructure/persistence"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testCookie = config.CookieConfig{Name: "findash_session", Path: "/", SameSite: "lax"}

// testEnv wires the real services over an in-memory SQLite database
type testEnv struct {
	db     *persistence.Database
	users  *persistence.GormUserDirectory
	auth   *appidentity.AuthService
	router *gin.Engine
	logs   *observer.ObservedLogs
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := persistence.NewSQLiteDatabase(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	users := persistence.NewGormUserDirectory(db.DB)
	budgets := persistence.NewGormBudgetRepository(db.DB)
	requests := persistence.NewGormCashRequestRepository(db.DB)
	expenses := persistence.NewGormExpenseRepository(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "findash-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := appidentity.NewAuthService(users, jwtService, blacklist, auth.NewInMemoryResetTokenStore(),
		appidentity.AuthServiceConfig{ResetTokenTTL: time.Minute, BaseURL: "https://findash.test"}, log)

	authH := NewAuthHandler(authService, testCookie)
	budgetH := NewBudgetHandler(appfinance.NewBudgetService(budgets, log))
	cashH := NewCashRequestHandler(appfinance.NewCashRequestService(requests, budgets,
		persistence.NewGormTransactionScope(db.DB), log))
	expenseH := NewExpenseHandler(appfinance.NewExpenseService(expenses, budgets, log))
	dashH := NewDashboardHandler(appfinance.NewDashboardService(budgets, requests, expenses, log))
	userH := NewUserHandler(appidentity.NewUserService(users, blacklist, time.Hour, log))
	systemH := NewSystemHandler("findash-backend", "test", db)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Authenticate(middleware.AuthConfig{
		Resolver:   authService,
		CookieName: testCookie.Name,
		Logger:     log,
	}))

	r.GET("/healthz", systemH.Health)
	r.GET("/system/info", systemH.GetSystemInfo)
	r.POST("/auth/signup", authH.SignUp)
	r.POST("/auth/login", authH.Login)
	r.POST("/auth/forgot-password", authH.ForgotPassword)
	r.POST("/auth/reset-password", authH.ResetPassword)

	api := r.Group("", middleware.RequireAuth())
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/me", authH.GetCurrentUser)
	api.PATCH("/auth/profile", authH.UpdateProfile)
	api.GET("/dashboard/summary", dashH.Summary)
	api.GET("/budgets", budgetH.List)
	api.GET("/budgets/export.pdf", budgetH.Export)
	api.POST("/budgets", budgetH.Create)
	api.GET("/cash-requests", cashH.List)
	api.POST("/cash-requests", cashH.Create)
	api.POST("/cash-requests/:id/approve", cashH.Approve)
	api.POST("/cash-requests/:id/reject", cashH.Reject)
	api.POST("/cash-requests/:id/disburse", cashH.Disburse)
	api.DELETE("/cash-requests/:id", cashH.Delete)
	api.GET("/expenses", expenseH.List)
	api.POST("/expenses", expenseH.Create)
	api.POST("/expenses/:id/verify", expenseH.Verify)

	finance := api.Group("/users", middleware.RequireRole(log, identity.RoleFinance))
	finance.GET("", userH.List)
	finance.PATCH("/:id/role", userH.UpdateRole)

	return &testEnv{db: db, users: users, auth: authService, router: r, logs: logs}
}

// signUp registers an account with the given role and returns a token
// whose claims carry that role
func (e *testEnv) signUp(t *testing.T, email string, role identity.Role) (string, *appidentity.UserInfo) {
	t.Helper()
	ctx := context.Background()
	session, err := e.auth.SignUp(ctx, appidentity.SignUpInput{
		Email:    email,
		Password: "password123",
		FullName: "Test " + role.String(),
	})
	require.NoError(t, err)
	if role == identity.RoleStaff {
		return session.AccessToken, &session.User
	}

	user, err := e.users.FindByID(ctx, session.User.ID)
	require.NoError(t, err)
	require.NoError(t, user.ChangeRole(role))
	require.NoError(t, e.users.Update(ctx, user))

	session, err = e.auth.Login(ctx, appidentity.LoginInput{Email: email, Password: "password123"})
	require.NoError(t, err)
	return session.AccessToken, &session.User
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}
