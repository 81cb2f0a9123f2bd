package handler

import (
	"net/http"
	"testing"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseHandler(t *testing.T) {
	env := newTestEnv(t)
	financeToken, _ := env.signUp(t, "fin@example.com", identity.RoleFinance)
	staffToken, _ := env.signUp(t, "staff@example.com", identity.RoleStaff)

	w := env.do(http.MethodPost, "/expenses", map[string]any{"amount": "89.90", "category": "Travel"}, staffToken)
	requireStatus(t, w, http.StatusCreated)
	expense := decodeData[ExpenseResponse](t, w)
	assert.False(t, expense.Verified)
	require.NotNil(t, expense.Category)
	assert.Equal(t, "Travel", *expense.Category)

	w = env.do(http.MethodPost, "/expenses", map[string]any{"amount": "15"}, staffToken)
	requireStatus(t, w, http.StatusCreated)
	assert.Nil(t, decodeData[ExpenseResponse](t, w).Category)

	t.Run("staff cannot verify", func(t *testing.T) {
		w := env.do(http.MethodPost, "/expenses/"+expense.ID.String()+"/verify", nil, staffToken)
		requireStatus(t, w, http.StatusForbidden)
	})

	t.Run("finance verifies once", func(t *testing.T) {
		w := env.do(http.MethodPost, "/expenses/"+expense.ID.String()+"/verify", nil, financeToken)
		requireStatus(t, w, http.StatusOK)
		assert.True(t, decodeData[ExpenseResponse](t, w).Verified)

		w = env.do(http.MethodPost, "/expenses/"+expense.ID.String()+"/verify", nil, financeToken)
		requireStatus(t, w, http.StatusUnprocessableEntity)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w))
	})

	t.Run("verified facet", func(t *testing.T) {
		w := env.do(http.MethodGet, "/expenses?verified=false", nil, staffToken)
		requireStatus(t, w, http.StatusOK)
		rows := decodeData[[]ExpenseResponse](t, w)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].Verified)

		w = env.do(http.MethodGet, "/expenses?verified=true&verified=false", nil, staffToken)
		requireStatus(t, w, http.StatusOK)
		assert.Len(t, decodeData[[]ExpenseResponse](t, w), 2)
	})

	t.Run("unknown expense", func(t *testing.T) {
		w := env.do(http.MethodPost, "/expenses/7f0c5a52-9d37-4a43-9a4f-2b2a0f6f3c11/verify", nil, financeToken)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("long category is rejected", func(t *testing.T) {
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'x'
		}
		w := env.do(http.MethodPost, "/expenses", map[string]any{"amount": "1", "category": string(long)}, staffToken)
		requireStatus(t, w, http.StatusBadRequest)
	})
}
