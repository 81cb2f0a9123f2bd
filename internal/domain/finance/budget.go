package finance

import (
	"regexp"
	"strings"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus represents the approval state of a budget
type BudgetStatus string

const (
	BudgetStatusApproved BudgetStatus = "APPROVED"
	BudgetStatusPending  BudgetStatus = "PENDING"
	BudgetStatusRejected BudgetStatus = "REJECTED"
)

// BudgetStatuses returns the facet options in display order
func BudgetStatuses() []BudgetStatus {
	return []BudgetStatus{BudgetStatusApproved, BudgetStatusPending, BudgetStatusRejected}
}

// IsValid checks if the status is a valid BudgetStatus
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusApproved, BudgetStatusPending, BudgetStatusRejected:
		return true
	}
	return false
}

func (s BudgetStatus) String() string {
	return string(s)
}

// Department is one of the organisation units a budget is allocated to
type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentMarketing   Department = "Marketing"
	DepartmentSales       Department = "Sales"
	DepartmentHR          Department = "HR"
	DepartmentFinance     Department = "Finance"
	DepartmentOperations  Department = "Operations"
)

// Departments returns the facet options in display order
func Departments() []Department {
	return []Department{
		DepartmentEngineering,
		DepartmentMarketing,
		DepartmentSales,
		DepartmentHR,
		DepartmentFinance,
		DepartmentOperations,
	}
}

// IsValid checks if the department is known
func (d Department) IsValid() bool {
	for _, known := range Departments() {
		if d == known {
			return true
		}
	}
	return false
}

func (d Department) String() string {
	return string(d)
}

// periodPattern accepts "2025", "2025-Q1" and "2025-03"
var periodPattern = regexp.MustCompile(`^\d{4}(-Q[1-4]|-(0[1-9]|1[0-2]))?$`)

// IsValidPeriod reports whether period is a year, quarter or month label
func IsValidPeriod(period string) bool {
	return periodPattern.MatchString(strings.TrimSpace(period))
}

var (
	ErrInvalidDepartment   = shared.NewDomainError("INVALID_INPUT", "Department is not valid")
	ErrInvalidPeriod       = shared.NewDomainError("INVALID_INPUT", "Period must look like 2025, 2025-Q1 or 2025-03")
	ErrInvalidBudgetStatus = shared.NewDomainError("INVALID_INPUT", "Budget status is not valid")
	ErrInvalidBudgetAmount = shared.NewDomainError("INVALID_INPUT", "Budget amount must be positive")
	ErrBudgetOverspent     = shared.NewDomainError("INVALID_STATE", "Used amount cannot exceed the budget amount")
	ErrBudgetCreateDenied  = shared.NewDomainError("FORBIDDEN", "Only FINANCE users can create budgets")
)

// Budget is a departmental allocation for a period
type Budget struct {
	shared.OwnedEntity
	Department Department      `json:"department"`
	Period     string          `json:"period"`
	Amount     decimal.Decimal `json:"amount"`
	Used       decimal.Decimal `json:"used"`
	Status     BudgetStatus    `json:"status"`
}

// NewBudget creates a budget. An empty status defaults to PENDING.
func NewBudget(createdBy uuid.UUID, department Department, period string, amount decimal.Decimal, status BudgetStatus) (*Budget, error) {
	if !department.IsValid() {
		return nil, ErrInvalidDepartment
	}
	period = strings.TrimSpace(period)
	if !IsValidPeriod(period) {
		return nil, ErrInvalidPeriod
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidBudgetAmount
	}
	if status == "" {
		status = BudgetStatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidBudgetStatus
	}
	return &Budget{
		OwnedEntity: shared.NewOwnedEntity(createdBy),
		Department:  department,
		Period:      period,
		Amount:      amount,
		Used:        decimal.Zero,
		Status:      status,
	}, nil
}

// Remaining returns the unspent part of the allocation
func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Used)
}

// Utilization returns Used / Amount, zero for an empty allocation
func (b *Budget) Utilization() decimal.Decimal {
	return valueobject.NewMoney(b.Used).Ratio(valueobject.NewMoney(b.Amount))
}

// Consume records spending against the budget
func (b *Budget) Consume(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidBudgetAmount
	}
	if b.Used.Add(amount).GreaterThan(b.Amount) {
		return ErrBudgetOverspent
	}
	b.Used = b.Used.Add(amount)
	b.Touch()
	return nil
}

// CanCreateBudget reports whether the principal may add budgets
func CanCreateBudget(p *identity.Principal) bool {
	return p.Is(identity.RoleFinance)
}
