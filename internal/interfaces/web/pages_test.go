package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGate_PageRoutes(t *testing.T) {
	env := newTestEnv(t)
	staffToken, _ := env.signUp(t, "staff@example.com", "Sam Staff", identity.RoleStaff)
	financeToken, _ := env.signUp(t, "finance@example.com", "Fay Finance", identity.RoleFinance)

	t.Run("anonymous is sent to login", func(t *testing.T) {
		requireRedirect(t, env.get("/budgets", ""), http.StatusFound, "/login")
		requireRedirect(t, env.get("/", ""), http.StatusFound, "/login")
		requireRedirect(t, env.get("/users", ""), http.StatusFound, "/login")
	})

	t.Run("signed in skips guest pages", func(t *testing.T) {
		requireRedirect(t, env.get("/login", staffToken), http.StatusFound, "/home")
		requireRedirect(t, env.get("/", staffToken), http.StatusFound, "/home")
	})

	t.Run("staff cannot open users", func(t *testing.T) {
		requireRedirect(t, env.get("/users", staffToken), http.StatusFound, "/403")
		denied := env.logs.FilterMessage("Access denied").All()
		require.NotEmpty(t, denied)
		assert.Equal(t, zapcore.WarnLevel, denied[0].Level)
	})

	t.Run("finance sees the user directory", func(t *testing.T) {
		w := env.get("/users", financeToken)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Sam Staff")
		assert.Contains(t, body, "Fay Finance")
		assert.Contains(t, body, "Make FINANCE")
		assert.Contains(t, body, "Make STAFF")
	})

	t.Run("navigation follows the role", func(t *testing.T) {
		staffHome := env.get("/home", staffToken).Body.String()
		assert.NotContains(t, staffHome, `href="/users"`)
		financeHome := env.get("/home", financeToken).Body.String()
		assert.Contains(t, financeHome, `href="/users"`)
	})
}

func TestStatusAndDocumentPages(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]int{
		"/401":     http.StatusUnauthorized,
		"/403":     http.StatusForbidden,
		"/500":     http.StatusInternalServerError,
		"/503":     http.StatusServiceUnavailable,
		"/privacy": http.StatusOK,
		"/terms":   http.StatusOK,
	}
	for path, status := range cases {
		t.Run(path, func(t *testing.T) {
			w := env.get(path, "")
			assert.Equal(t, status, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Header().Get("Content-Security-Policy"), "script-src 'none'")
			assert.NotContains(t, w.Body.String(), "<script")
		})
	}
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/static/app.css", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".pager")
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "lee@example.com", "Lee", identity.RoleStaff)

	t.Run("wrong password", func(t *testing.T) {
		w := env.post("/login", url.Values{"email": {"lee@example.com"}, "password": {"nope12345"}}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Invalid email or password")
		assert.Contains(t, body, `value="lee@example.com"`)
	})

	t.Run("malformed email", func(t *testing.T) {
		w := env.post("/login", url.Values{"email": {"lee"}, "password": {"x"}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success sets the session cookie", func(t *testing.T) {
		w := env.post("/login", url.Values{"email": {"lee@example.com"}, "password": {"password123"}}, "")
		requireRedirect(t, w, http.StatusSeeOther, "/home")
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)

		home := env.get("/home", cookie.Value)
		assert.Equal(t, http.StatusOK, home.Code)
	})
}

func TestSignUpPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.post("/signup", url.Values{
		"email": {"new@example.com"}, "password": {"password123"}, "full_name": {"New Person"},
	}, "")
	requireRedirect(t, w, http.StatusSeeOther, "/home")
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	home := env.get("/home", cookie.Value).Body.String()
	assert.Contains(t, home, "New Person")
	assert.Contains(t, home, "Your pending requests")

	dup := env.post("/signup", url.Values{"email": {"new@example.com"}, "password": {"password123"}}, "")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), "An account with this email already exists")

	weak := env.post("/signup", url.Values{"email": {"weak@example.com"}, "password": {"password"}}, "")
	assert.Equal(t, http.StatusBadRequest, weak.Code)
	assert.Contains(t, weak.Body.String(), "contain a letter and a number")
}

func TestSignOut(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "out@example.com", "Out", identity.RoleStaff)

	w := env.post("/auth/signout", nil, token)
	requireRedirect(t, w, http.StatusSeeOther, "/login?notice=signed_out")
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)

	requireRedirect(t, env.get("/home", token), http.StatusFound, "/login")

	login := env.get("/login?notice=signed_out", "")
	assert.Contains(t, login.Body.String(), "You have been signed out.")

	requireRedirect(t, env.post("/auth/signout", nil, ""), http.StatusSeeOther, "/login?notice=signed_out")
}

func TestPasswordResetPages(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "forgot@example.com", "Forgetful", identity.RoleStaff)

	requireRedirect(t, env.post("/forgot-password", url.Values{"email": {"nobody@example.com"}}, ""),
		http.StatusSeeOther, "/forgot-password?notice=reset_sent")
	requireRedirect(t, env.post("/forgot-password", url.Values{"email": {"forgot@example.com"}}, ""),
		http.StatusSeeOther, "/forgot-password?notice=reset_sent")

	issued := env.logs.FilterMessage("Password reset link issued").All()
	require.Len(t, issued, 1)
	link, err := url.Parse(issued[0].ContextMap()["link"].(string))
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	form := env.get("/reset-password?token="+url.QueryEscape(token), "")
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `name="token"`)

	assert.Equal(t, http.StatusBadRequest, env.get("/reset-password", "").Code)

	requireRedirect(t, env.post("/reset-password", url.Values{"token": {token}, "password": {"newpass456"}}, ""),
		http.StatusSeeOther, "/login?notice=password_reset")

	again := env.post("/reset-password", url.Values{"token": {token}, "password": {"newpass789"}}, "")
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.Contains(t, again.Body.String(), "invalid or has expired")

	login := env.post("/login", url.Values{"email": {"forgot@example.com"}, "password": {"newpass456"}}, "")
	requireRedirect(t, login, http.StatusSeeOther, "/home")
}

func TestSettingsPage(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp(t, "me@example.com", "Old Name", identity.RoleStaff)

	page := env.get("/settings", token)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "me@example.com")
	assert.Contains(t, page.Body.String(), `value="Old Name"`)

	w := env.post("/settings", url.Values{"full_name": {"New Name"}}, token)
	requireRedirect(t, w, http.StatusSeeOther, "/settings?notice=profile_updated")
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	updated := env.get("/settings?notice=profile_updated", cookie.Value).Body.String()
	assert.Contains(t, updated, `value="New Name"`)
	assert.Contains(t, updated, "Profile updated.")

	long := env.post("/settings", url.Values{"full_name": {strings.Repeat("x", 101)}}, cookie.Value)
	requireRedirect(t, long, http.StatusSeeOther, "/settings?error=invalid_input")
}
