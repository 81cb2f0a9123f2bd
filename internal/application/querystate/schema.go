// Package querystate maps list views to and from URL query parameters.
//
// The URL is the single source of truth for a list view: page, page size,
// search text, facet filters and sort. Decoding never fails; anything that
// cannot be understood falls back to the list default.
package querystate

import (
	"slices"

	"github.com/findash/backend/internal/domain/shared"
)

// Query parameter names shared by every list
const (
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamSearch    = "search"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageSizes are the page sizes a list may be shown with
var PageSizes = []int{10, 20, 25, 30, 40, 50}

// IsAllowedPageSize reports whether n is one of PageSizes
func IsAllowedPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Facet is a set-membership filter carried as a repeated query key.
// When Options is empty any non-blank value is accepted.
type Facet struct {
	Key     string
	Title   string
	Options []Option
}

// Option is one selectable facet value
type Option struct {
	Value string
	Label string
}

// Accepts reports whether value is a legal option for the facet
func (f Facet) Accepts(value string) bool {
	if value == "" {
		return false
	}
	if len(f.Options) == 0 {
		return true
	}
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Schema describes the query surface of one list
type Schema struct {
	Name         string
	SortFields   []string
	DefaultSort  string
	DefaultOrder shared.SortOrder
	Facets       []Facet
}

// Sortable reports whether field is on the sort whitelist
func (s Schema) Sortable(field string) bool {
	return slices.Contains(s.SortFields, field)
}

// Facet returns the facet declared under key
func (s Schema) Facet(key string) (Facet, bool) {
	for _, f := range s.Facets {
		if f.Key == key {
			return f, true
		}
	}
	return Facet{}, false
}

// Default returns the canonical state of the list
func (s Schema) Default() State {
	return State{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		Filters:   map[string][]string{},
		SortBy:    s.DefaultSort,
		SortOrder: s.defaultOrder(),
	}
}

func (s Schema) defaultOrder() shared.SortOrder {
	if s.DefaultOrder.IsValid() {
		return s.DefaultOrder
	}
	return shared.SortAsc
}
