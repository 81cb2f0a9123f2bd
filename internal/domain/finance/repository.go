package finance

import (
	"context"

	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter keys understood by the finance repositories.
// Values for each key are combined as set membership, keys are ANDed.
const (
	FilterStatus     = "status"
	FilterDepartment = "department"
	FilterVerified   = "verified"
	// FilterCreatedBy scopes a listing to a single owner. It is never
	// taken from the query string.
	FilterCreatedBy = "created_by"
)

// BudgetRepository persists budgets
type BudgetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	// Count returns the number of budgets matching the filter, ignoring paging
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Find returns one page of budgets matching the filter
	Find(ctx context.Context, filter shared.Filter) ([]Budget, error)
	Create(ctx context.Context, budget *Budget) error
	Update(ctx context.Context, budget *Budget) error
	Totals(ctx context.Context) (BudgetTotals, error)
}

// BudgetTotals aggregates all budgets
type BudgetTotals struct {
	Amount decimal.Decimal `json:"amount"`
	Used   decimal.Decimal `json:"used"`
	Count  int64           `json:"count"`
}

// CashRequestRepository persists cash requests
type CashRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CashRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Find(ctx context.Context, filter shared.Filter) ([]CashRequest, error)
	Create(ctx context.Context, cr *CashRequest) error
	Update(ctx context.Context, cr *CashRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Find(ctx context.Context, filter shared.Filter) ([]Expense, error)
	Create(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
}
