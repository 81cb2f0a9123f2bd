// Package finance holds the budget, cash request, expense and dashboard
// use cases.
package finance

import (
	"context"
	"errors"

	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrBudgetNotFound is returned when a referenced budget does not exist
var ErrBudgetNotFound = shared.NewDomainError("INVALID_INPUT", "Budget not found")

// translate passes domain errors through and hides everything else behind
// an INTERNAL_ERROR, logging the cause
func translate(ctx context.Context, l *zap.Logger, message string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	logger.WithLogger(ctx, l).Error(message, zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", message)
}

func notFound(kind string) error {
	return shared.NewDomainError("NOT_FOUND", kind+" not found")
}
