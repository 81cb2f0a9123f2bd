package persistence

import (
	"context"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormTransactionScope implements finance.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in one transaction, rolling back when it returns an error
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BudgetRepo reads budgets with FOR UPDATE so concurrent disbursements
// against one budget serialize
func (r *gormTransactionalRepositories) BudgetRepo() finance.BudgetRepository {
	return &GormBudgetRepository{db: r.tx, forUpdate: true}
}

func (r *gormTransactionalRepositories) CashRequestRepo() finance.CashRequestRepository {
	return &GormCashRequestRepository{db: r.tx, forUpdate: true}
}

func (r *gormTransactionalRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

var (
	_ appfinance.TransactionScope          = (*GormTransactionScope)(nil)
	_ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
