package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	appfinance "github.com/findash/backend/internal/application/finance"
	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/infrastructure/persistence"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testCookie = config.CookieConfig{Name: "findash_session", Path: "/", SameSite: "lax"}

type testEnv struct {
	users    *persistence.GormUserDirectory
	auth     *appidentity.AuthService
	budgets  *appfinance.BudgetService
	requests *appfinance.CashRequestService
	expenses *appfinance.ExpenseService
	engine   *gin.Engine
	logs     *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := persistence.NewSQLiteDatabase(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	users := persistence.NewGormUserDirectory(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	requestRepo := persistence.NewGormCashRequestRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "findash-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := appidentity.NewAuthService(users, jwtService, blacklist, auth.NewInMemoryResetTokenStore(),
		appidentity.AuthServiceConfig{ResetTokenTTL: time.Minute, BaseURL: "https://findash.test"}, log)

	env := &testEnv{
		users:    users,
		auth:     authService,
		budgets:  appfinance.NewBudgetService(budgetRepo, log),
		requests: appfinance.NewCashRequestService(requestRepo, budgetRepo, persistence.NewGormTransactionScope(db.DB), log),
		expenses: appfinance.NewExpenseService(expenseRepo, budgetRepo, log),
		logs:     logs,
	}

	pages, err := NewPages(Deps{
		Auth:         authService,
		Users:        appidentity.NewUserService(users, blacklist, time.Hour, log),
		Budgets:      env.budgets,
		CashRequests: env.requests,
		Expenses:     env.expenses,
		Dashboard:    appfinance.NewDashboardService(budgetRepo, requestRepo, expenseRepo, log),
		Cookie:       testCookie,
		Logger:       log,
	})
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(middleware.Secure())
	engine.Use(middleware.Authenticate(middleware.AuthConfig{
		Resolver:   authService,
		CookieName: testCookie.Name,
		Logger:     log,
	}))
	require.NoError(t, pages.Register(engine))
	env.engine = engine
	return env
}

// signUp registers an account with role and returns its session token and principal
func (e *testEnv) signUp(t *testing.T, email, name string, role identity.Role) (string, *identity.Principal) {
	t.Helper()
	ctx := context.Background()
	session, err := e.auth.SignUp(ctx, appidentity.SignUpInput{Email: email, Password: "password123", FullName: name})
	require.NoError(t, err)

	if role != identity.RoleStaff {
		user, err := e.users.FindByID(ctx, session.User.ID)
		require.NoError(t, err)
		require.NoError(t, user.ChangeRole(role))
		require.NoError(t, e.users.Update(ctx, user))
		session, err = e.auth.Login(ctx, appidentity.LoginInput{Email: email, Password: "password123"})
		require.NoError(t, err)
	}

	principal, _, err := e.auth.ResolvePrincipal(ctx, session.AccessToken)
	require.NoError(t, err)
	return session.AccessToken, principal
}

func (e *testEnv) get(path, token string) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (e *testEnv) post(path string, form url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(req, token)
}

func (e *testEnv) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: token})
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, status int, location string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}
