package finance

import (
	"context"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Card is one dashboard figure. A card whose query failed has Failed set
// and a zero Value.
type Card[T any] struct {
	Value  T    `json:"value"`
	Failed bool `json:"failed"`
}

// Summary is the home dashboard
type Summary struct {
	Budgets             Card[finance.BudgetTotals] `json:"budgets"`
	PendingCashRequests Card[int64]                `json:"pending_cash_requests"`
	UnverifiedExpenses  Card[int64]                `json:"unverified_expenses"`
	// OwnRequestsOnly is set when the pending count covers only the viewer's requests
	OwnRequestsOnly bool `json:"own_requests_only"`
}

// DashboardService computes the home dashboard
type DashboardService struct {
	budgets  finance.BudgetRepository
	requests finance.CashRequestRepository
	expenses finance.ExpenseRepository
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	budgets finance.BudgetRepository,
	requests finance.CashRequestRepository,
	expenses finance.ExpenseRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{budgets: budgets, requests: requests, expenses: expenses, logger: logger}
}

// Summary runs the three card queries concurrently. Each card fails on its
// own; the summary itself always renders.
func (s *DashboardService) Summary(ctx context.Context, actor *identity.Principal) Summary {
	ctx, span := telemetry.StartSpan(ctx, "dashboard", "summary")
	defer span.End()

	out := Summary{OwnRequestsOnly: !actor.Is(identity.RoleFinance)}

	pending := shared.Filter{Filters: map[string][]string{
		finance.FilterStatus: {finance.CashRequestStatusPending.String()},
	}}
	if out.OwnRequestsOnly {
		owner := uuid.Nil
		if actor != nil {
			owner = actor.ID
		}
		pending.Filters[finance.FilterCreatedBy] = []string{owner.String()}
	}
	unverified := shared.Filter{Filters: map[string][]string{
		finance.FilterVerified: {"false"},
	}}

	var g errgroup.Group
	g.Go(func() error {
		totals, err := s.budgets.Totals(ctx)
		out.Budgets = card(ctx, s.logger, "budgets", totals, err)
		return nil
	})
	g.Go(func() error {
		n, err := s.requests.Count(ctx, pending)
		out.PendingCashRequests = card(ctx, s.logger, "pending_cash_requests", n, err)
		return nil
	})
	g.Go(func() error {
		n, err := s.expenses.Count(ctx, unverified)
		out.UnverifiedExpenses = card(ctx, s.logger, "unverified_expenses", n, err)
		return nil
	})
	_ = g.Wait()

	return out
}

func card[T any](ctx context.Context, l *zap.Logger, name string, value T, err error) Card[T] {
	if err != nil {
		logger.WithLogger(ctx, l).Error("dashboard card failed", zap.String("card", name), zap.Error(err))
		var zero T
		return Card[T]{Value: zero, Failed: true}
	}
	return Card[T]{Value: value}
}
