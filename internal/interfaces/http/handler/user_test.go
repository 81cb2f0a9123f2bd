package handler

import (
	"net/http"
	"testing"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_List(t *testing.T) {
	env := newTestEnv(t)
	financeToken, _ := env.signUp(t, "fin@example.com", identity.RoleFinance)
	staffToken, _ := env.signUp(t, "staff@example.com", identity.RoleStaff)

	t.Run("staff is forbidden", func(t *testing.T) {
		w := env.do(http.MethodGet, "/users", nil, staffToken)
		requireStatus(t, w, http.StatusForbidden)
		assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	})

	t.Run("finance reads the directory", func(t *testing.T) {
		w := env.do(http.MethodGet, "/users", nil, financeToken)
		requireStatus(t, w, http.StatusOK)
		rows := decodeData[[]identity.UserSummary](t, w)
		require.Len(t, rows, 2)
	})

	t.Run("role facet", func(t *testing.T) {
		w := env.do(http.MethodGet, "/users?role=STAFF", nil, financeToken)
		requireStatus(t, w, http.StatusOK)
		rows := decodeData[[]identity.UserSummary](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, identity.RoleStaff, rows[0].Role)
	})
}

func TestUserHandler_UpdateRole(t *testing.T) {
	env := newTestEnv(t)
	financeToken, _ := env.signUp(t, "fin@example.com", identity.RoleFinance)
	staffToken, staffUser := env.signUp(t, "staff@example.com", identity.RoleStaff)
	path := "/users/" + staffUser.ID.String() + "/role"

	t.Run("unknown role", func(t *testing.T) {
		w := env.do(http.MethodPatch, path, map[string]any{"role": "ADMIN"}, financeToken)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("unknown user", func(t *testing.T) {
		w := env.do(http.MethodPatch, "/users/7f0c5a52-9d37-4a43-9a4f-2b2a0f6f3c11/role",
			map[string]any{"role": "FINANCE"}, financeToken)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("staff cannot promote", func(t *testing.T) {
		w := env.do(http.MethodPatch, path, map[string]any{"role": "FINANCE"}, staffToken)
		requireStatus(t, w, http.StatusForbidden)
	})

	t.Run("promotion revokes the old token", func(t *testing.T) {
		w := env.do(http.MethodPatch, path, map[string]any{"role": "finance"}, financeToken)
		requireStatus(t, w, http.StatusOK)
		summary := decodeData[identity.UserSummary](t, w)
		assert.Equal(t, identity.RoleFinance, summary.Role)

		requireStatus(t, env.do(http.MethodGet, "/auth/me", nil, staffToken), http.StatusUnauthorized)
	})
}
