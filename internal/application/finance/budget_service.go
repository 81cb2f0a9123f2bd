package finance

import (
	"context"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBudgetInput contains input for adding a budget
type CreateBudgetInput struct {
	Department string
	Period     string
	Amount     decimal.Decimal
	Status     string
}

// BudgetService lists and creates budgets
type BudgetService struct {
	repo     finance.BudgetRepository
	provider *listing.Provider[finance.Budget]
	logger   *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(repo finance.BudgetRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		repo:     repo,
		provider: listing.NewProvider[finance.Budget](querystate.Budgets.Name, repo, logger),
		logger:   logger,
	}
}

// FetchPage serves one page of the budgets list
func (s *BudgetService) FetchPage(ctx context.Context, st querystate.State) listing.Result[finance.Budget] {
	return s.provider.FetchPage(ctx, st)
}

// Create adds a budget. Only FINANCE may create budgets.
func (s *BudgetService) Create(ctx context.Context, actor *identity.Principal, input CreateBudgetInput) (*finance.Budget, error) {
	if !finance.CanCreateBudget(actor) {
		return nil, finance.ErrBudgetCreateDenied
	}

	budget, err := finance.NewBudget(actor.ID, finance.Department(input.Department), input.Period,
		input.Amount, finance.BudgetStatus(input.Status))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, budget); err != nil {
		return nil, translate(ctx, s.logger, "Failed to create budget", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Budget created",
		zap.String("budget_id", budget.ID.String()),
		zap.String("department", budget.Department.String()),
		zap.String("period", budget.Period))
	return budget, nil
}
