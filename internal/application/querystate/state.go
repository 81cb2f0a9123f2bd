package querystate

import (
	"slices"

	"github.com/findash/backend/internal/domain/shared"
)

// State is the decoded view state of a list
type State struct {
	Page      int
	PageSize  int
	Search    string
	Filters   map[string][]string
	SortBy    string
	SortOrder shared.SortOrder
}

// Values returns the selected values of a facet
func (s State) Values(key string) []string {
	return s.Filters[key]
}

// Selected reports whether value is selected for the facet
func (s State) Selected(key, value string) bool {
	return slices.Contains(s.Filters[key], value)
}

// IsFiltered reports whether any search text or facet value is active
func (s State) IsFiltered() bool {
	if s.Search != "" {
		return true
	}
	for _, values := range s.Filters {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// WithPage moves to page p. Pages below 1 become 1.
func (s State) WithPage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Filters = cloneFilters(s.Filters)
	s.Page = p
	return s
}

// WithPageSize changes the page size and returns to page 1.
// Sizes outside PageSizes leave the state unchanged.
func (s State) WithPageSize(n int) State {
	if !IsAllowedPageSize(n) {
		return s
	}
	s = s.reset()
	s.PageSize = n
	return s
}

// WithSearch replaces the search text and returns to page 1
func (s State) WithSearch(q string) State {
	s = s.reset()
	s.Search = q
	return s
}

// WithSort sets the sort column and direction and returns to page 1
func (s State) WithSort(field string, order shared.SortOrder) State {
	s = s.reset()
	s.SortBy = field
	s.SortOrder = order
	return s
}

// ToggleFilter adds value to the facet, or removes it when already selected,
// and returns to page 1
func (s State) ToggleFilter(key, value string) State {
	s = s.reset()
	current := s.Filters[key]
	if i := slices.Index(current, value); i >= 0 {
		current = slices.Delete(slices.Clone(current), i, i+1)
	} else {
		current = append(slices.Clone(current), value)
	}
	if len(current) == 0 {
		delete(s.Filters, key)
	} else {
		s.Filters[key] = current
	}
	return s
}

// ClearFilters drops every facet value and the search text, and returns to page 1
func (s State) ClearFilters() State {
	s = s.reset()
	s.Filters = map[string][]string{}
	s.Search = ""
	return s
}

// Filter converts the state into a repository predicate
func (s State) Filter() shared.Filter {
	return shared.Filter{
		Page:     s.Page,
		PageSize: s.PageSize,
		OrderBy:  s.SortBy,
		OrderDir: s.SortOrder,
		Search:   s.Search,
		Filters:  cloneFilters(s.Filters),
	}
}

func (s State) reset() State {
	s.Filters = cloneFilters(s.Filters)
	s.Page = DefaultPage
	return s
}

func cloneFilters(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		if len(v) > 0 {
			out[k] = slices.Clone(v)
		}
	}
	return out
}
