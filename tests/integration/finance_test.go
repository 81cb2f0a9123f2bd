package integration

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/persistence"
	"github.com/findash/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type financeServices struct {
	budgets   *appfinance.BudgetService
	requests  *appfinance.CashRequestService
	expenses  *appfinance.ExpenseService
	dashboard *appfinance.DashboardService
}

func newFinanceServices(tdb *TestDB) financeServices {
	log := zap.NewNop()
	budgetRepo := persistence.NewGormBudgetRepository(tdb.DB)
	requestRepo := persistence.NewGormCashRequestRepository(tdb.DB)
	expenseRepo := persistence.NewGormExpenseRepository(tdb.DB)
	return financeServices{
		budgets:   appfinance.NewBudgetService(budgetRepo, log),
		requests:  appfinance.NewCashRequestService(requestRepo, budgetRepo, persistence.NewGormTransactionScope(tdb.DB), log),
		expenses:  appfinance.NewExpenseService(expenseRepo, budgetRepo, log),
		dashboard: appfinance.NewDashboardService(budgetRepo, requestRepo, expenseRepo, log),
	}
}

func createBudget(t *testing.T, svc financeServices, amount int64) *finance.Budget {
	t.Helper()
	b, err := svc.budgets.Create(context.Background(), testutil.FinancePrincipal(), appfinance.CreateBudgetInput{
		Department: "Engineering",
		Period:     "2026-Q1",
		Amount:     decimal.NewFromInt(amount),
		Status:     "APPROVED",
	})
	require.NoError(t, err)
	return b
}

func approvedRequest(t *testing.T, svc financeServices, budgetID uuid.UUID, amount int64) *finance.CashRequest {
	t.Helper()
	ctx := context.Background()
	cr, err := svc.requests.Create(ctx, testutil.StaffPrincipal(), appfinance.CreateCashRequestInput{
		BudgetID: &budgetID,
		Amount:   decimal.NewFromInt(amount),
		Purpose:  "Conference travel",
	})
	require.NoError(t, err)
	_, err = svc.requests.Approve(ctx, testutil.FinancePrincipal(), cr.ID)
	require.NoError(t, err)
	return cr
}

func TestFinance_CashRequestLifecycle(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newFinanceServices(tdb)
	ctx := context.Background()
	financeUser := testutil.FinancePrincipal()

	budget := createBudget(t, svc, 1000)
	cr := approvedRequest(t, svc, budget.ID, 250)

	disbursed, err := svc.requests.Disburse(ctx, financeUser, cr.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.CashRequestStatusDisbursed, disbursed.Status)

	_, err = svc.requests.Reject(ctx, financeUser, cr.ID)
	assert.ErrorIs(t, err, finance.ErrCashRequestDecided)

	page := svc.budgets.FetchPage(ctx, querystate.Budgets.Default())
	require.False(t, page.Failed)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].Used.Equal(decimal.NewFromInt(250)), "used %s", page.Data[0].Used)
	assert.True(t, page.Data[0].Remaining().Equal(decimal.NewFromInt(750)))

	summary := svc.dashboard.Summary(ctx, financeUser)
	assert.False(t, summary.Budgets.Failed)
	assert.True(t, summary.Budgets.Value.Used.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, int64(0), summary.PendingCashRequests.Value)
}

func TestFinance_ConcurrentDisbursementsCannotOverspend(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newFinanceServices(tdb)
	financeUser := testutil.FinancePrincipal()

	budget := createBudget(t, svc, 1000)
	first := approvedRequest(t, svc, budget.ID, 600)
	second := approvedRequest(t, svc, budget.ID, 600)

	var succeeded, overspent atomic.Int32
	var g errgroup.Group
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		g.Go(func() error {
			_, err := svc.requests.Disburse(context.Background(), financeUser, id)
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, finance.ErrBudgetOverspent):
				overspent.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), overspent.Load())

	stored, err := persistence.NewGormBudgetRepository(tdb.DB).FindByID(context.Background(), budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Used.Equal(decimal.NewFromInt(600)), "used %s", stored.Used)
}

func TestFinance_DoubleDisbursementConsumesOnce(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newFinanceServices(tdb)
	financeUser := testutil.FinancePrincipal()

	budget := createBudget(t, svc, 1000)
	cr := approvedRequest(t, svc, budget.ID, 300)

	var succeeded atomic.Int32
	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			if _, err := svc.requests.Disburse(context.Background(), financeUser, cr.ID); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, finance.ErrCashNotApproved)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	stored, err := persistence.NewGormBudgetRepository(tdb.DB).FindByID(context.Background(), budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Used.Equal(decimal.NewFromInt(300)), "used %s", stored.Used)
}

func TestFinance_ListFiltersOnPostgres(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newFinanceServices(tdb)
	ctx := context.Background()
	staff := testutil.StaffPrincipal()

	budget := createBudget(t, svc, 5000)
	for i, purpose := range []string{"Team offsite", "100% refund", "Laptop"} {
		_, err := svc.requests.Create(ctx, staff, appfinance.CreateCashRequestInput{
			BudgetID: &budget.ID,
			Amount:   decimal.NewFromInt(int64(90 - 20*i)),
			Purpose:  purpose,
		})
		require.NoError(t, err)
	}

	t.Run("search treats wildcards literally", func(t *testing.T) {
		page := svc.requests.FetchPage(ctx, testutil.FinancePrincipal(), querystate.CashRequests.Default().WithSearch("100%"))
		require.False(t, page.Failed)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "100% refund", page.Data[0].Purpose)
	})

	t.Run("staff see only their own requests", func(t *testing.T) {
		other := testutil.StaffPrincipal()
		other.ID = testutil.NewTestUUID("someone-else")
		page := svc.requests.FetchPage(ctx, other, querystate.CashRequests.Default())
		require.False(t, page.Failed)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("status facet and sort", func(t *testing.T) {
		st := querystate.CashRequests.Default().
			ToggleFilter(finance.FilterStatus, finance.CashRequestStatusPending.String()).
			WithSort("amount", shared.SortAsc)
		page := svc.requests.FetchPage(ctx, staff, st)
		require.False(t, page.Failed)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 1, page.TotalPages)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "Laptop", page.Data[0].Purpose)
		assert.Equal(t, "100% refund", page.Data[1].Purpose)
		assert.Equal(t, "Team offsite", page.Data[2].Purpose)

		approved := querystate.CashRequests.Default().
			ToggleFilter(finance.FilterStatus, finance.CashRequestStatusApproved.String())
		assert.Equal(t, int64(0), svc.requests.FetchPage(ctx, staff, approved).Total)
	})

	t.Run("unverified expenses count on the dashboard", func(t *testing.T) {
		_, err := svc.expenses.Create(ctx, staff, appfinance.CreateExpenseInput{
			BudgetID: &budget.ID,
			Amount:   decimal.RequireFromString("19.99"),
			Category: "Travel",
		})
		require.NoError(t, err)

		summary := svc.dashboard.Summary(ctx, staff)
		assert.True(t, summary.OwnRequestsOnly)
		assert.Equal(t, int64(3), summary.PendingCashRequests.Value)
		assert.Equal(t, int64(1), summary.UnverifiedExpenses.Value)
	})
}
