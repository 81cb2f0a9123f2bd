package finance

import (
	"context"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBudgetRepository is a mock implementation of finance.BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.Budget, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *finance.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) Update(ctx context.Context, budget *finance.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) Totals(ctx context.Context) (finance.BudgetTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(finance.BudgetTotals), args.Error(1)
}

// MockCashRequestRepository is a mock implementation of finance.CashRequestRepository
type MockCashRequestRepository struct {
	mock.Mock
}

func (m *MockCashRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CashRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashRequest), args.Error(1)
}

func (m *MockCashRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashRequestRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.CashRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.CashRequest), args.Error(1)
}

func (m *MockCashRequestRepository) Create(ctx context.Context, cr *finance.CashRequest) error {
	return m.Called(ctx, cr).Error(0)
}

func (m *MockCashRequestRepository) Update(ctx context.Context, cr *finance.CashRequest) error {
	return m.Called(ctx, cr).Error(0)
}

func (m *MockCashRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *finance.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, e *finance.Expense) error {
	return m.Called(ctx, e).Error(0)
}

var (
	_ finance.BudgetRepository      = (*MockBudgetRepository)(nil)
	_ finance.CashRequestRepository = (*MockCashRequestRepository)(nil)
	_ finance.ExpenseRepository     = (*MockExpenseRepository)(nil)
)
