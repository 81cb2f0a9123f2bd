package handler

import (
	"time"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents the request body for recording an expense
// @Description Request body for a new expense
type CreateExpenseRequest struct {
	BudgetID *string        `json:"budget_id" binding:"omitempty,uuid"`
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"89.90"`
	Category string          `json:"category" binding:"max=100" example:"Travel"`
}

// ExpenseResponse is one expense row
// @Description Expense
type ExpenseResponse struct {
	ID        uuid.UUID       `json:"id"`
	BudgetID  *uuid.UUID      `json:"budget_id"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"89.9"`
	Category  *string         `json:"category"`
	Verified  bool            `json:"verified"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

func toExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		BudgetID:  e.BudgetID,
		Amount:    e.Amount,
		Category:  e.Category,
		Verified:  e.IsVerified(),
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}
