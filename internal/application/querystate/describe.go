package querystate

import (
	"fmt"
	"strings"
)

// Describe summarizes a list state for humans, e.g.
//
//	Search "eng"; Status: Approved, Pending; sorted by amount desc
//
// Facets follow schema order and use option labels.
func Describe(schema Schema, st State) string {
	var parts []string
	if st.Search != "" {
		parts = append(parts, fmt.Sprintf("Search %q", st.Search))
	}
	for _, facet := range schema.Facets {
		values := st.Values(facet.Key)
		if len(values) == 0 {
			continue
		}
		labels := make([]string, len(values))
		for i, v := range values {
			labels[i] = facet.label(v)
		}
		parts = append(parts, facet.Title+": "+strings.Join(labels, ", "))
	}
	if st.SortBy != "" {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", st.SortBy, st.SortOrder))
	}
	return strings.Join(parts, "; ")
}

func (f Facet) label(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
