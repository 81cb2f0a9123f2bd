package finance

import (
	"context"

	"github.com/findash/backend/internal/domain/finance"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. A returned error rolls the work back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the finance repositories bound to a transaction
type TransactionalRepositories interface {
	BudgetRepo() finance.BudgetRepository
	CashRequestRepo() finance.CashRequestRepository
	ExpenseRepo() finance.ExpenseRepository
}

// NoOpTransactionScope hands out the plain repositories without a transaction.
// For tests and stores without transaction support.
type NoOpTransactionScope struct {
	budgets  finance.BudgetRepository
	requests finance.CashRequestRepository
	expenses finance.ExpenseRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	budgets finance.BudgetRepository,
	requests finance.CashRequestRepository,
	expenses finance.ExpenseRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{budgets: budgets, requests: requests, expenses: expenses}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) BudgetRepo() finance.BudgetRepository           { return s.budgets }
func (s *NoOpTransactionScope) CashRequestRepo() finance.CashRequestRepository { return s.requests }
func (s *NoOpTransactionScope) ExpenseRepo() finance.ExpenseRepository         { return s.expenses }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
