package querystate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/findash/backend/internal/domain/shared"
)

// Decode reads a list state from query values.
//
// Every field is read independently and falls back to its default when
// missing or malformed. Facet values may be given as repeated keys or as a
// comma-separated list; they are kept in first-seen order, de-duplicated,
// and dropped when not among the facet's options.
func Decode(schema Schema, values url.Values) State {
	st := schema.Default()

	if p, err := strconv.Atoi(strings.TrimSpace(values.Get(ParamPage))); err == nil && p >= 1 {
		st.Page = p
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(ParamPageSize))); err == nil && IsAllowedPageSize(n) {
		st.PageSize = n
	}
	st.Search = values.Get(ParamSearch)

	if field := values.Get(ParamSortBy); schema.Sortable(field) {
		st.SortBy = field
	}
	if order := shared.SortOrder(strings.ToLower(values.Get(ParamSortOrder))); order.IsValid() {
		st.SortOrder = order
	}

	for _, facet := range schema.Facets {
		seen := make(map[string]struct{})
		var selected []string
		for _, raw := range values[facet.Key] {
			for _, v := range strings.Split(raw, ",") {
				v = strings.TrimSpace(v)
				if _, dup := seen[v]; dup || !facet.Accepts(v) {
					continue
				}
				seen[v] = struct{}{}
				selected = append(selected, v)
			}
		}
		if len(selected) > 0 {
			st.Filters[facet.Key] = selected
		}
	}
	return st
}

// Encode writes st as query values, omitting every key that equals its default
func Encode(schema Schema, st State) url.Values {
	values := url.Values{}
	if st.Page > DefaultPage {
		values.Set(ParamPage, strconv.Itoa(st.Page))
	}
	if st.PageSize != DefaultPageSize && IsAllowedPageSize(st.PageSize) {
		values.Set(ParamPageSize, strconv.Itoa(st.PageSize))
	}
	if st.Search != "" {
		values.Set(ParamSearch, st.Search)
	}
	for _, facet := range schema.Facets {
		for _, v := range st.Filters[facet.Key] {
			values.Add(facet.Key, v)
		}
	}
	if st.SortBy != "" && st.SortBy != schema.DefaultSort && schema.Sortable(st.SortBy) {
		values.Set(ParamSortBy, st.SortBy)
	}
	if st.SortOrder.IsValid() && st.SortOrder != schema.defaultOrder() {
		values.Set(ParamSortOrder, string(st.SortOrder))
	}
	return values
}

// EncodeQuery returns the encoded query string without a leading "?"
func EncodeQuery(schema Schema, st State) string {
	return Encode(schema, st).Encode()
}

// URL joins path with the encoded state
func URL(path string, schema Schema, st State) string {
	q := EncodeQuery(schema, st)
	if q == "" {
		return path
	}
	return path + "?" + q
}
