package persistence

import (
	"strings"

	"github.com/findash/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir shared.SortOrder) string {
	normalized := strings.ToUpper(strings.TrimSpace(string(orderDir)))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BudgetSortFields contains allowed sort fields for budgets
var BudgetSortFields = map[string]bool{
	"department": true,
	"period":     true,
	"amount":     true,
	"used":       true,
	"status":     true,
	"created_at": true,
}

// CashRequestSortFields contains allowed sort fields for cash requests
var CashRequestSortFields = map[string]bool{
	"amount":     true,
	"status":     true,
	"created_at": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"amount":     true,
	"category":   true,
	"created_at": true,
}
