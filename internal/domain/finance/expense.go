package finance

import (
	"strings"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxCategoryLength = 100

var (
	ErrInvalidExpenseAmount = shared.NewDomainError("INVALID_INPUT", "Expense amount must be positive")
	ErrCategoryTooLong      = shared.NewDomainError("INVALID_INPUT", "Category cannot exceed 100 characters")
	ErrVerifyDenied         = shared.NewDomainError("FORBIDDEN", "Only FINANCE users can verify expenses")
	ErrAlreadyVerified      = shared.NewDomainError("INVALID_STATE", "Expense is already verified")
)

// Expense is money already spent, optionally booked against a budget.
// Verified is nil until finance reviews the expense.
type Expense struct {
	shared.OwnedEntity
	BudgetID *uuid.UUID      `json:"budget_id"`
	Amount   decimal.Decimal `json:"amount"`
	Category *string         `json:"category"`
	Verified *bool           `json:"verified"`
}

// NewExpense creates an unverified expense
func NewExpense(createdBy uuid.UUID, budgetID *uuid.UUID, amount decimal.Decimal, category string) (*Expense, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidExpenseAmount
	}
	category = strings.TrimSpace(category)
	if len(category) > maxCategoryLength {
		return nil, ErrCategoryTooLong
	}
	e := &Expense{
		OwnedEntity: shared.NewOwnedEntity(createdBy),
		BudgetID:    budgetID,
		Amount:      amount,
	}
	if category != "" {
		e.Category = &category
	}
	return e, nil
}

// IsVerified treats a missing flag as unverified
func (e *Expense) IsVerified() bool {
	return e.Verified != nil && *e.Verified
}

// CategoryOrEmpty returns the category, "" when unset
func (e *Expense) CategoryOrEmpty() string {
	if e.Category == nil {
		return ""
	}
	return *e.Category
}

// Verify marks the expense as reviewed by finance
func (e *Expense) Verify(by *identity.Principal) error {
	if !by.Is(identity.RoleFinance) {
		return ErrVerifyDenied
	}
	if e.IsVerified() {
		return ErrAlreadyVerified
	}
	verified := true
	e.Verified = &verified
	e.Touch()
	return nil
}
