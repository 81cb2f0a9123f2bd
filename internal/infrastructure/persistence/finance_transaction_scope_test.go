package persistence

import (
	"context"
	"errors"
	"testing"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_CommitAndRollback(t *testing.T) {
	db := newTestDatabase(t).DB
	budgets := NewGormBudgetRepository(db)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	b := seedBudget(t, budgets, finance.DepartmentHR, "2026", "1000", finance.BudgetStatusApproved, 1)

	err := scope.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
		got, err := repos.BudgetRepo().FindByID(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := got.Consume(decimal.NewFromInt(400)); err != nil {
			return err
		}
		return repos.BudgetRepo().Update(ctx, got)
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = scope.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
		got, err := repos.BudgetRepo().FindByID(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := got.Consume(decimal.NewFromInt(100)); err != nil {
			return err
		}
		if err := repos.BudgetRepo().Update(ctx, got); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	stored, err := budgets.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.Used.Equal(decimal.NewFromInt(400)), "rolled back consumption must not persist, got %s", stored.Used)
}
