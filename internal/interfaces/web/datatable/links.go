package datatable

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/findash/backend/internal/application/querystate"
)

// Links are the navigation targets of a server-rendered list. Every link is
// a canonical list URL, so the browser address always describes the view.
type Links struct {
	First    string
	Previous string
	Next     string
	Last     string
	Clear    string
	Refresh  string

	Headers   []HeaderLink
	Facets    []FacetLinks
	PageSizes []PageSizeLink

	Columns []ColumnLink
	// ResetColumns shows every column again; empty when none is hidden
	ResetColumns string
}

// ColumnLink shows or hides one column. URL is empty when the column is at
// the visibility floor.
type ColumnLink struct {
	Key     string
	Title   string
	Visible bool
	URL     string
}

// HeaderLink is a column header. URL is empty for columns that cannot sort.
type HeaderLink struct {
	Key       string
	Title     string
	URL       string
	Direction string
}

// FacetLinks lists the toggles of one facet
type FacetLinks struct {
	Key     string
	Title   string
	Options []OptionLink
}

// OptionLink toggles one facet value
type OptionLink struct {
	Value    string
	Label    string
	Selected bool
	URL      string
}

// PageSizeLink switches the page size
type PageSizeLink struct {
	Size    int
	Label   string
	Current bool
	URL     string
}

// BuildLinks computes the links of view for the list served at path
func BuildLinks[T any](path string, schema querystate.Schema, v View[T]) Links {
	st := v.State
	link := func(s querystate.State) string { return ListURL(path, schema, s, v.Hidden) }

	links := Links{
		First:    link(st.WithPage(1)),
		Previous: link(st.WithPage(max(v.Page-1, 1))),
		Next:     link(st.WithPage(min(v.Page+1, v.TotalPages))),
		Last:     link(st.WithPage(v.TotalPages)),
		Clear:    link(st.ClearFilters()),
		Refresh:  link(st),
	}

	explicit := IsExplicitSort(schema, st)
	for _, c := range v.Columns {
		h := HeaderLink{Key: c.Key, Title: c.Title}
		if c.Sortable && schema.Sortable(c.Key) {
			next, _ := NextSort(schema, st, explicit, c.Key)
			h.URL = link(next)
			h.Direction = SortDirection(schema, st, c.Key)
		}
		links.Headers = append(links.Headers, h)
	}

	for _, f := range schema.Facets {
		fl := FacetLinks{Key: f.Key, Title: f.Title}
		for _, o := range f.Options {
			fl.Options = append(fl.Options, OptionLink{
				Value:    o.Value,
				Label:    o.Label,
				Selected: st.Selected(f.Key, o.Value),
				URL:      link(st.ToggleFilter(f.Key, o.Value)),
			})
		}
		links.Facets = append(links.Facets, fl)
	}

	for _, n := range querystate.PageSizes {
		links.PageSizes = append(links.PageSizes, PageSizeLink{
			Size:    n,
			Label:   strconv.Itoa(n),
			Current: n == v.PageSize,
			URL:     link(st.WithPageSize(n)),
		})
	}
	for _, tg := range v.Toggles {
		cl := ColumnLink{Key: tg.Key, Title: tg.Title, Visible: tg.Visible}
		switch {
		case !tg.Visible:
			cl.URL = ListURL(path, schema, st, slices.DeleteFunc(slices.Clone(v.Hidden), func(k string) bool { return k == tg.Key }))
		case tg.CanHide:
			hidden := append(slices.Clone(v.Hidden), tg.Key)
			slices.Sort(hidden)
			cl.URL = ListURL(path, schema, st, hidden)
		}
		links.Columns = append(links.Columns, cl)
	}
	if len(v.Hidden) > 0 {
		links.ResetColumns = ListURL(path, schema, st, nil)
	}
	return links
}

// ListValues encodes st plus the hidden column keys
func ListValues(schema querystate.Schema, st querystate.State, hidden []string) url.Values {
	values := querystate.Encode(schema, st)
	for _, k := range hidden {
		values.Add(ParamHide, k)
	}
	return values
}

// ListURL joins path with the encoded state and hidden column keys
func ListURL(path string, schema querystate.Schema, st querystate.State, hidden []string) string {
	q := ListValues(schema, st, hidden).Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}
