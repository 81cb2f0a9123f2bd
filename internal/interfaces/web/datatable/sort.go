package datatable

import (
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/shared"
)

// SortDirection reports how column key is sorted in st: "asc", "desc" or ""
// when st is not explicitly sorted by it
func SortDirection(schema querystate.Schema, st querystate.State, key string) string {
	if !IsExplicitSort(schema, st) || st.SortBy != key {
		return ""
	}
	return string(st.SortOrder)
}

// IsExplicitSort reports whether st carries a sort other than the list default
func IsExplicitSort(schema querystate.Schema, st querystate.State) bool {
	def := schema.Default()
	return st.SortBy != def.SortBy || st.SortOrder != def.SortOrder
}

// NextSort advances the sort cycle of column key:
// unsorted, ascending, descending, then back to the list default.
// A different column always starts ascending. explicit tells whether the
// current sort was chosen by the viewer; the returned flag is the new value.
// When the list default is the ascending sort of key, unsorted and ascending
// are the same view, so an unsorted click goes straight to descending.
func NextSort(schema querystate.Schema, st querystate.State, explicit bool, key string) (querystate.State, bool) {
	switch {
	case st.SortBy != key:
		return st.WithSort(key, shared.SortAsc), true
	case !explicit && st.SortOrder != shared.SortAsc:
		return st.WithSort(key, shared.SortAsc), true
	case st.SortOrder == shared.SortAsc:
		return st.WithSort(key, shared.SortDesc), true
	default:
		def := schema.Default()
		return st.WithSort(def.SortBy, def.SortOrder), false
	}
}
