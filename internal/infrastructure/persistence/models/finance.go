package models

import (
	"github.com/findash/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetModel is the persistence model for finance.Budget
type BudgetModel struct {
	OwnedModel
	Department finance.Department   `gorm:"type:varchar(50);not null;index"`
	Period     string               `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal      `gorm:"type:decimal(14,2);not null"`
	Used       decimal.Decimal      `gorm:"type:decimal(14,2);not null;default:0"`
	Status     finance.BudgetStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget
func (m *BudgetModel) ToDomain() *finance.Budget {
	return &finance.Budget{
		OwnedEntity: m.ToOwnedEntity(),
		Department:  m.Department,
		Period:      m.Period,
		Amount:      m.Amount,
		Used:        m.Used,
		Status:      m.Status,
	}
}

// FromDomain populates the persistence model from a domain Budget
func (m *BudgetModel) FromDomain(b *finance.Budget) {
	m.FromDomainOwnedEntity(b.OwnedEntity)
	m.Department = b.Department
	m.Period = b.Period
	m.Amount = b.Amount
	m.Used = b.Used
	m.Status = b.Status
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget
func BudgetModelFromDomain(b *finance.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}

// CashRequestModel is the persistence model for finance.CashRequest
type CashRequestModel struct {
	OwnedModel
	BudgetID *uuid.UUID                `gorm:"type:uuid;index"`
	Amount   decimal.Decimal           `gorm:"type:decimal(14,2);not null"`
	Purpose  *string                   `gorm:"type:text"`
	Status   finance.CashRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (CashRequestModel) TableName() string {
	return "cash_requests"
}

// ToDomain converts the persistence model to a domain CashRequest
func (m *CashRequestModel) ToDomain() *finance.CashRequest {
	return &finance.CashRequest{
		OwnedEntity: m.ToOwnedEntity(),
		BudgetID:    m.BudgetID,
		Amount:      m.Amount,
		Purpose:     m.Purpose,
		Status:      m.Status,
	}
}

// FromDomain populates the persistence model from a domain CashRequest
func (m *CashRequestModel) FromDomain(cr *finance.CashRequest) {
	m.FromDomainOwnedEntity(cr.OwnedEntity)
	m.BudgetID = cr.BudgetID
	m.Amount = cr.Amount
	m.Purpose = cr.Purpose
	m.Status = cr.Status
}

// CashRequestModelFromDomain creates a new persistence model from a domain CashRequest
func CashRequestModelFromDomain(cr *finance.CashRequest) *CashRequestModel {
	m := &CashRequestModel{}
	m.FromDomain(cr)
	return m
}

// ExpenseModel is the persistence model for finance.Expense.
// A NULL verified column means the expense has not been reviewed.
type ExpenseModel struct {
	OwnedModel
	BudgetID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Category *string         `gorm:"type:varchar(100)"`
	Verified *bool
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		OwnedEntity: m.ToOwnedEntity(),
		BudgetID:    m.BudgetID,
		Amount:      m.Amount,
		Category:    m.Category,
		Verified:    m.Verified,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainOwnedEntity(e.OwnedEntity)
	m.BudgetID = e.BudgetID
	m.Amount = e.Amount
	m.Category = e.Category
	m.Verified = e.Verified
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
