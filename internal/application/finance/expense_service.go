package finance

import (
	"context"
	"errors"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateExpenseInput contains input for recording an expense
type CreateExpenseInput struct {
	BudgetID *uuid.UUID
	Amount   decimal.Decimal
	Category string
}

// ExpenseService records and verifies expenses
type ExpenseService struct {
	repo     finance.ExpenseRepository
	budgets  finance.BudgetRepository
	provider *listing.Provider[finance.Expense]
	logger   *zap.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(repo finance.ExpenseRepository, budgets finance.BudgetRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		repo:     repo,
		budgets:  budgets,
		provider: listing.NewProvider[finance.Expense](querystate.Expenses.Name, repo, logger),
		logger:   logger,
	}
}

// FetchPage serves one page of the expenses list
func (s *ExpenseService) FetchPage(ctx context.Context, st querystate.State) listing.Result[finance.Expense] {
	return s.provider.FetchPage(ctx, st)
}

// Create records an unverified expense owned by actor
func (s *ExpenseService) Create(ctx context.Context, actor *identity.Principal, input CreateExpenseInput) (*finance.Expense, error) {
	if !actor.HasRole() {
		return nil, identity.ErrInsufficientRole
	}
	if input.BudgetID != nil {
		if _, err := s.budgets.FindByID(ctx, *input.BudgetID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, ErrBudgetNotFound
			}
			return nil, translate(ctx, s.logger, "Failed to load budget", err)
		}
	}

	expense, err := finance.NewExpense(actor.ID, input.BudgetID, input.Amount, input.Category)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, translate(ctx, s.logger, "Failed to create expense", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.StringFixed(2)))
	return expense, nil
}

// Verify marks an expense as reviewed. FINANCE only.
func (s *ExpenseService) Verify(ctx context.Context, actor *identity.Principal, id uuid.UUID) (*finance.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFound("Expense")
		}
		return nil, translate(ctx, s.logger, "Failed to load expense", err)
	}
	if err := expense.Verify(actor); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, translate(ctx, s.logger, "Failed to verify expense", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Expense verified", zap.String("expense_id", id.String()))
	return expense, nil
}
