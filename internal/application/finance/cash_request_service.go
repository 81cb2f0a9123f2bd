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

// CreateCashRequestInput contains input for requesting funds
type CreateCashRequestInput struct {
	BudgetID *uuid.UUID
	Amount   decimal.Decimal
	Purpose  string
}

// CashRequestService manages the cash request lifecycle
type CashRequestService struct {
	repo     finance.CashRequestRepository
	budgets  finance.BudgetRepository
	scope    TransactionScope
	provider *listing.Provider[finance.CashRequest]
	logger   *zap.Logger
}

// NewCashRequestService creates a new cash request service
func NewCashRequestService(
	repo finance.CashRequestRepository,
	budgets finance.BudgetRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *CashRequestService {
	return &CashRequestService{
		repo:     repo,
		budgets:  budgets,
		scope:    scope,
		provider: listing.NewProvider[finance.CashRequest](querystate.CashRequests.Name, repo, logger),
		logger:   logger,
	}
}

// FetchPage serves one page of the cash requests visible to actor.
// FINANCE sees every request, everyone else only their own.
func (s *CashRequestService) FetchPage(ctx context.Context, actor *identity.Principal, st querystate.State) listing.Result[finance.CashRequest] {
	filter := st.Filter()
	if !actor.Is(identity.RoleFinance) {
		owner := uuid.Nil
		if actor != nil {
			owner = actor.ID
		}
		filter.Filters[finance.FilterCreatedBy] = []string{owner.String()}
	}
	return s.provider.Fetch(ctx, filter)
}

// Create files a pending request owned by actor
func (s *CashRequestService) Create(ctx context.Context, actor *identity.Principal, input CreateCashRequestInput) (*finance.CashRequest, error) {
	if !actor.HasRole() {
		return nil, identity.ErrInsufficientRole
	}
	if err := s.checkBudget(ctx, input.BudgetID); err != nil {
		return nil, err
	}

	cr, err := finance.NewCashRequest(actor.ID, input.BudgetID, input.Amount, input.Purpose)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cr); err != nil {
		return nil, translate(ctx, s.logger, "Failed to create cash request", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Cash request created",
		zap.String("cash_request_id", cr.ID.String()),
		zap.String("amount", cr.Amount.StringFixed(2)))
	return cr, nil
}

func (s *CashRequestService) checkBudget(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.budgets.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrBudgetNotFound
		}
		return translate(ctx, s.logger, "Failed to load budget", err)
	}
	return nil
}

// Approve moves a pending request to APPROVED
func (s *CashRequestService) Approve(ctx context.Context, actor *identity.Principal, id uuid.UUID) (*finance.CashRequest, error) {
	return s.transition(ctx, id, "approved", func(cr *finance.CashRequest) error {
		return cr.Approve(actor)
	})
}

// Reject moves a pending request to REJECTED
func (s *CashRequestService) Reject(ctx context.Context, actor *identity.Principal, id uuid.UUID) (*finance.CashRequest, error) {
	return s.transition(ctx, id, "rejected", func(cr *finance.CashRequest) error {
		return cr.Reject(actor)
	})
}

func (s *CashRequestService) transition(ctx context.Context, id uuid.UUID, verb string, apply func(*finance.CashRequest) error) (*finance.CashRequest, error) {
	cr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(cr); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cr); err != nil {
		return nil, translate(ctx, s.logger, "Failed to update cash request", err)
	}
	logger.WithLogger(ctx, s.logger).Info("Cash request "+verb, zap.String("cash_request_id", id.String()))
	return cr, nil
}

// Disburse releases the funds of an approved request. A request drawn
// against a budget adds its amount to the budget's used total in the same
// transaction; a disbursement that would overspend the budget is refused.
func (s *CashRequestService) Disburse(ctx context.Context, actor *identity.Principal, id uuid.UUID) (*finance.CashRequest, error) {
	var out *finance.CashRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cr, err := repos.CashRequestRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return notFound("Cash request")
			}
			return err
		}
		if err := cr.Disburse(actor); err != nil {
			return err
		}

		if cr.BudgetID != nil {
			budget, err := repos.BudgetRepo().FindByID(ctx, *cr.BudgetID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return ErrBudgetNotFound
				}
				return err
			}
			if err := budget.Consume(cr.Amount); err != nil {
				return err
			}
			if err := repos.BudgetRepo().Update(ctx, budget); err != nil {
				return err
			}
		}

		if err := repos.CashRequestRepo().Update(ctx, cr); err != nil {
			return err
		}
		out = cr
		return nil
	})
	if err != nil {
		return nil, translate(ctx, s.logger, "Failed to disburse cash request", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Cash request disbursed",
		zap.String("cash_request_id", id.String()),
		zap.String("amount", out.Amount.StringFixed(2)))
	return out, nil
}

// Delete removes a request. FINANCE may delete any request, STAFF only
// their own pending ones.
func (s *CashRequestService) Delete(ctx context.Context, actor *identity.Principal, id uuid.UUID) error {
	cr, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !cr.CanDelete(actor) {
		return finance.ErrCashDeleteDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return notFound("Cash request")
		}
		return translate(ctx, s.logger, "Failed to delete cash request", err)
	}
	logger.WithLogger(ctx, s.logger).Info("Cash request deleted", zap.String("cash_request_id", id.String()))
	return nil
}

func (s *CashRequestService) load(ctx context.Context, id uuid.UUID) (*finance.CashRequest, error) {
	cr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFound("Cash request")
		}
		return nil, translate(ctx, s.logger, "Failed to load cash request", err)
	}
	return cr, nil
}
