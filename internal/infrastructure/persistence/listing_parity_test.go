package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func budgetColumns() listing.Columns[finance.Budget] {
	department := func(b finance.Budget) string { return string(b.Department) }
	period := func(b finance.Budget) string { return b.Period }
	status := func(b finance.Budget) string { return string(b.Status) }
	return listing.Columns[finance.Budget]{
		ID: func(b finance.Budget) string { return b.ID.String() },
		Sort: map[string]listing.Field[finance.Budget]{
			"department": department,
			"period":     period,
			"created_at": func(b finance.Budget) string { return b.CreatedAt.UTC().Format(time.RFC3339Nano) },
		},
		Search: []listing.Field[finance.Budget]{department, period},
		Facets: map[string]listing.Field[finance.Budget]{
			finance.FilterStatus:     status,
			finance.FilterDepartment: department,
		},
	}
}

func budgetIDs(rows []finance.Budget) []string {
	out := make([]string, len(rows))
	for i, b := range rows {
		out[i] = b.ID.String()
	}
	return out
}

func TestBudgetListing_SQLAndInMemoryAgree(t *testing.T) {
	repo := NewGormBudgetRepository(newTestDatabase(t).DB)
	departments := []finance.Department{finance.DepartmentEngineering, finance.DepartmentMarketing, finance.DepartmentSales}
	statuses := []finance.BudgetStatus{finance.BudgetStatusApproved, finance.BudgetStatusPending}
	periods := []string{"2026-Q1", "2026-Q2"}

	var seeded []finance.Budget
	for i := range 13 {
		b := seedBudget(t, repo, departments[i%3], periods[i%2], "100", statuses[i%2], i)
		seeded = append(seeded, *b)
	}

	schema := querystate.Budgets
	sql := listing.NewProvider[finance.Budget](schema.Name, repo, zap.NewNop())
	mem := listing.NewInMemoryProvider(schema, func(context.Context) ([]finance.Budget, error) {
		return seeded, nil
	}, budgetColumns(), zap.NewNop())

	states := map[string]querystate.State{
		"default":             schema.Default(),
		"blank search":        schema.Default().WithSearch("   "),
		"padded search":       schema.Default().WithSearch("  q1 "),
		"page past the end":   schema.Default().WithPage(9),
		"status facet":        schema.Default().ToggleFilter(finance.FilterStatus, "PENDING"),
		"department sort":     schema.Default().WithSort("department", shared.SortAsc).WithPage(2),
		"facets and search":   schema.Default().ToggleFilter(finance.FilterDepartment, "Sales").WithSearch("Q2"),
		"no rows match":       schema.Default().WithSearch("Finance"),
		"wider page":          schema.Default().WithPageSize(20),
		"period sort reverse": schema.Default().WithSort("period", shared.SortDesc),
	}
	for name, st := range states {
		t.Run(name, func(t *testing.T) {
			a := sql.FetchPage(context.Background(), st)
			b := mem.FetchPage(context.Background(), st)
			require.False(t, a.Failed)
			require.False(t, b.Failed)
			assert.Equal(t, a.Total, b.Total)
			assert.Equal(t, a.Page, b.Page)
			assert.Equal(t, a.TotalPages, b.TotalPages)
			assert.Equal(t, budgetIDs(a.Data), budgetIDs(b.Data))
		})
	}
}
