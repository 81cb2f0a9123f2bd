package querystate

import (
	"strings"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Budgets is the query surface of the budgets list
var Budgets = Schema{
	Name:         "budgets",
	SortFields:   []string{"department", "period", "amount", "used", "status", "created_at"},
	DefaultSort:  "created_at",
	DefaultOrder: shared.SortDesc,
	Facets: []Facet{
		{Key: finance.FilterStatus, Title: "Status", Options: budgetStatusOptions()},
		{Key: finance.FilterDepartment, Title: "Department", Options: departmentOptions()},
	},
}

// CashRequests is the query surface of the cash requests list
var CashRequests = Schema{
	Name:         "cash_requests",
	SortFields:   []string{"amount", "status", "created_at"},
	DefaultSort:  "created_at",
	DefaultOrder: shared.SortDesc,
	Facets: []Facet{
		{Key: finance.FilterStatus, Title: "Status", Options: cashStatusOptions()},
	},
}

// Expenses is the query surface of the expenses list
var Expenses = Schema{
	Name:         "expenses",
	SortFields:   []string{"amount", "category", "created_at"},
	DefaultSort:  "created_at",
	DefaultOrder: shared.SortDesc,
	Facets: []Facet{
		{Key: finance.FilterVerified, Title: "Verified", Options: []Option{
			{Value: "true", Label: "Verified"},
			{Value: "false", Label: "Unverified"},
		}},
	},
}

// Users is the query surface of the users list
var Users = Schema{
	Name:         "users",
	SortFields:   []string{"full_name", "role"},
	DefaultSort:  "full_name",
	DefaultOrder: shared.SortAsc,
	Facets: []Facet{
		{Key: "role", Title: "Role", Options: roleOptions()},
	},
}

func budgetStatusOptions() []Option {
	statuses := finance.BudgetStatuses()
	opts := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, Option{Value: s.String(), Label: titleCase(s.String())})
	}
	return opts
}

func departmentOptions() []Option {
	depts := finance.Departments()
	opts := make([]Option, 0, len(depts))
	for _, d := range depts {
		opts = append(opts, Option{Value: d.String(), Label: d.String()})
	}
	return opts
}

func cashStatusOptions() []Option {
	statuses := finance.CashRequestStatuses()
	opts := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, Option{Value: s.String(), Label: titleCase(s.String())})
	}
	return opts
}

func roleOptions() []Option {
	roles := identity.Roles()
	opts := make([]Option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, Option{Value: r.String(), Label: titleCase(r.String())})
	}
	return opts
}

// titleCase turns "PENDING" into "Pending"
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
