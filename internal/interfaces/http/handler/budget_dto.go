package handler

import (
	"time"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest represents the request body for adding a budget
// @Description Request body for adding a budget
type CreateBudgetRequest struct {
	Department string          `json:"department" binding:"required,department" example:"Engineering"`
	Period     string          `json:"period" binding:"required,budget_period" example:"2025-Q1"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"15000.00"`
	Status     string          `json:"status" binding:"omitempty,budget_status" example:"PENDING"`
}

// BudgetResponse is one budget row
// @Description Budget allocation
type BudgetResponse struct {
	ID         uuid.UUID       `json:"id"`
	Department string          `json:"department" example:"Engineering"`
	Period     string          `json:"period" example:"2025-Q1"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"15000"`
	Used       decimal.Decimal `json:"used" swaggertype:"string" example:"2500"`
	Remaining  decimal.Decimal `json:"remaining" swaggertype:"string" example:"12500"`
	Status     string          `json:"status" example:"APPROVED"`
	CreatedBy  uuid.UUID       `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toBudgetResponse(b *finance.Budget) BudgetResponse {
	return BudgetResponse{
		ID:         b.ID,
		Department: b.Department.String(),
		Period:     b.Period,
		Amount:     b.Amount,
		Used:       b.Used,
		Remaining:  b.Remaining(),
		Status:     b.Status.String(),
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
