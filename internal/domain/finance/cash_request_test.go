package finance

import (
	"testing"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finance() *identity.Principal {
	return &identity.Principal{ID: uuid.New(), Role: identity.RoleFinance}
}

func staff() *identity.Principal {
	return &identity.Principal{ID: uuid.New(), Role: identity.RoleStaff}
}

func newPending(t *testing.T, owner uuid.UUID) *CashRequest {
	t.Helper()
	cr, err := NewCashRequest(owner, nil, decimal.NewFromInt(250), "  Team lunch ")
	require.NoError(t, err)
	return cr
}

func TestNewCashRequest(t *testing.T) {
	owner := uuid.New()
	cr := newPending(t, owner)
	assert.Equal(t, CashRequestStatusPending, cr.Status)
	require.NotNil(t, cr.Purpose)
	assert.Equal(t, "Team lunch", *cr.Purpose)
	assert.True(t, cr.IsOwnedBy(owner))

	blank, err := NewCashRequest(owner, nil, decimal.NewFromInt(1), "   ")
	require.NoError(t, err)
	assert.Nil(t, blank.Purpose)
	assert.Equal(t, "", blank.PurposeOrEmpty())

	_, err = NewCashRequest(owner, nil, decimal.NewFromInt(-5), "")
	assert.ErrorIs(t, err, ErrInvalidCashAmount)
}

func TestCashRequest_Transitions(t *testing.T) {
	t.Run("approve then disburse", func(t *testing.T) {
		cr := newPending(t, uuid.New())
		fin := finance()
		require.NoError(t, cr.Approve(fin))
		assert.Equal(t, CashRequestStatusApproved, cr.Status)
		require.NoError(t, cr.Disburse(fin))
		assert.Equal(t, CashRequestStatusDisbursed, cr.Status)
		assert.True(t, cr.Status.IsTerminal())
	})

	t.Run("reject is terminal", func(t *testing.T) {
		cr := newPending(t, uuid.New())
		require.NoError(t, cr.Reject(finance()))
		assert.ErrorIs(t, cr.Approve(finance()), ErrCashRequestDecided)
		assert.ErrorIs(t, cr.Disburse(finance()), ErrCashNotApproved)
	})

	t.Run("disburse requires approval", func(t *testing.T) {
		cr := newPending(t, uuid.New())
		assert.ErrorIs(t, cr.Disburse(finance()), ErrCashNotApproved)
		assert.Equal(t, CashRequestStatusPending, cr.Status)
	})

	t.Run("staff cannot decide", func(t *testing.T) {
		owner := staff()
		cr := newPending(t, owner.ID)
		assert.ErrorIs(t, cr.Approve(owner), ErrCashDecisionDenied)
		assert.ErrorIs(t, cr.Reject(owner), ErrCashDecisionDenied)
		assert.ErrorIs(t, cr.Disburse(nil), ErrCashDecisionDenied)
		assert.Equal(t, CashRequestStatusPending, cr.Status)
	})
}

func TestCashRequest_CanDelete(t *testing.T) {
	owner := staff()
	other := staff()

	cr := newPending(t, owner.ID)
	assert.True(t, cr.CanDelete(owner))
	assert.False(t, cr.CanDelete(other))
	assert.True(t, cr.CanDelete(finance()))
	assert.False(t, cr.CanDelete(&identity.Principal{ID: owner.ID}))

	require.NoError(t, cr.Approve(finance()))
	assert.False(t, cr.CanDelete(owner), "staff cannot delete once decided")
	assert.True(t, cr.CanDelete(finance()))
}

func TestCashRequest_CanView(t *testing.T) {
	owner := staff()
	cr := newPending(t, owner.ID)
	assert.True(t, cr.CanView(owner))
	assert.False(t, cr.CanView(staff()))
	assert.True(t, cr.CanView(finance()))
	assert.False(t, cr.CanView(nil))
}
