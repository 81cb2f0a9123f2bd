package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDashboardService_Summary(t *testing.T) {
	budgets := new(MockBudgetRepository)
	requests := new(MockCashRequestRepository)
	expenses := new(MockExpenseRepository)

	budgets.On("Totals", mock.Anything).Return(finance.BudgetTotals{
		Amount: decimal.NewFromInt(9000),
		Used:   decimal.NewFromInt(1500),
		Count:  3,
	}, nil)
	requests.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return assert.ObjectsAreEqual([]string{"PENDING"}, f.Values(finance.FilterStatus)) &&
			len(f.Values(finance.FilterCreatedBy)) == 0
	})).Return(int64(4), nil)
	expenses.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return assert.ObjectsAreEqual([]string{"false"}, f.Values(finance.FilterVerified))
	})).Return(int64(2), nil)

	svc := NewDashboardService(budgets, requests, expenses, zap.NewNop())
	sum := svc.Summary(context.Background(), financeActor())

	assert.False(t, sum.OwnRequestsOnly)
	assert.False(t, sum.Budgets.Failed)
	assert.True(t, sum.Budgets.Value.Amount.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, int64(4), sum.PendingCashRequests.Value)
	assert.Equal(t, int64(2), sum.UnverifiedExpenses.Value)
}

func TestDashboardService_Summary_StaffCountsOwnRequests(t *testing.T) {
	budgets := new(MockBudgetRepository)
	requests := new(MockCashRequestRepository)
	expenses := new(MockExpenseRepository)
	staff := staffActor()

	budgets.On("Totals", mock.Anything).Return(finance.BudgetTotals{}, nil)
	requests.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return assert.ObjectsAreEqual([]string{staff.ID.String()}, f.Values(finance.FilterCreatedBy))
	})).Return(int64(1), nil)
	expenses.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	sum := NewDashboardService(budgets, requests, expenses, zap.NewNop()).Summary(context.Background(), staff)

	assert.True(t, sum.OwnRequestsOnly)
	assert.Equal(t, int64(1), sum.PendingCashRequests.Value)
	requests.AssertExpectations(t)
}

func TestDashboardService_Summary_FailsPerCard(t *testing.T) {
	budgets := new(MockBudgetRepository)
	requests := new(MockCashRequestRepository)
	expenses := new(MockExpenseRepository)
	core, logs := observer.New(zapcore.ErrorLevel)

	budgets.On("Totals", mock.Anything).Return(finance.BudgetTotals{}, errors.New("timeout"))
	requests.On("Count", mock.Anything, mock.Anything).Return(int64(7), nil)
	expenses.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

	sum := NewDashboardService(budgets, requests, expenses, zap.New(core)).Summary(context.Background(), financeActor())

	assert.True(t, sum.Budgets.Failed)
	assert.True(t, sum.Budgets.Value.Amount.IsZero())
	assert.False(t, sum.PendingCashRequests.Failed)
	assert.Equal(t, int64(7), sum.PendingCashRequests.Value)
	assert.True(t, sum.UnverifiedExpenses.Failed)
	assert.Equal(t, 2, logs.Len())
}
