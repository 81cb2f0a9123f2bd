package handler

import (
	"time"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCashRequestRequest represents the request body for requesting funds
// @Description Request body for a new cash request
type CreateCashRequestRequest struct {
	BudgetID *string        `json:"budget_id" binding:"omitempty,uuid"`
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"250.00"`
	Purpose  string          `json:"purpose" binding:"max=500" example:"Team offsite catering"`
}

// CashRequestResponse is one cash request row
// @Description Cash request
type CashRequestResponse struct {
	ID        uuid.UUID       `json:"id"`
	BudgetID  *uuid.UUID      `json:"budget_id"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"250"`
	Purpose   *string         `json:"purpose"`
	Status    string          `json:"status" example:"PENDING"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toCashRequestResponse(cr *finance.CashRequest) CashRequestResponse {
	return CashRequestResponse{
		ID:        cr.ID,
		BudgetID:  cr.BudgetID,
		Amount:    cr.Amount,
		Purpose:   cr.Purpose,
		Status:    cr.Status.String(),
		CreatedBy: cr.CreatedBy,
		CreatedAt: cr.CreatedAt,
		UpdatedAt: cr.UpdatedAt,
	}
}
