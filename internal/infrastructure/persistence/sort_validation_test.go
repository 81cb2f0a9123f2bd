package persistence

import (
	"testing"

	"github.com/findash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    shared.SortOrder
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc returns ASC", shared.SortAsc, "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"desc returns DESC", shared.SortDesc, "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE budgets;--", "DESC"},
		{"whitespace around asc returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "amount", "created_at", "amount"},
		{"invalid field returns default", "purpose", "created_at", "created_at"},
		{"case sensitive", "AMOUNT", "created_at", "created_at"},
		{"whitespace around valid field returns field", "  status  ", "created_at", "status"},
		{"sql injection attempt returns default", "amount; DROP TABLE cash_requests;--", "created_at", "created_at"},
		{"subquery returns default", "amount, (SELECT password_hash FROM users)", "created_at", "created_at"},
		{"empty default with invalid field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, CashRequestSortFields, tt.defaultField))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"BudgetSortFields":      BudgetSortFields,
		"CashRequestSortFields": CashRequestSortFields,
		"ExpenseSortFields":     ExpenseSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, whitelist["created_at"], "%s should allow the default sort column", name)
			assert.True(t, whitelist["amount"], "%s should allow amount", name)
			assert.False(t, whitelist["id"], "%s exposes id only as tiebreak", name)
		})
	}
}
