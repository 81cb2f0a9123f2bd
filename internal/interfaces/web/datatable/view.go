// Package datatable drives paginated, filterable, sortable list views.
//
// Table is a headless controller that owns the list state and talks to a
// listing.Fetcher; View is the render-only snapshot handed to templates. A
// View never holds more than the current page of rows.
package datatable

import (
	"net/url"
	"slices"
	"strings"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
)

// DefaultEmptyMessage is shown when a list has no rows
const DefaultEmptyMessage = "No results."

// MinVisibleColumns is the floor below which hideable columns cannot be hidden
const MinVisibleColumns = 2

// ParamHide carries hidden column keys in server-rendered list URLs.
// Column visibility is a viewer preference and never part of the list state.
const ParamHide = "hide"

// Column describes one table column. Key doubles as the sort field when
// Sortable is set.
type Column[T any] struct {
	Key      string
	Title    string
	Sortable bool
	// Hideable columns can be toggled by the viewer
	Hideable bool
	Cell     func(*T) string
}

// View is what a renderer receives: the current page and its counts
type View[T any] struct {
	Rows       []T
	Columns    []Column[T]
	State      querystate.State
	Total      int64
	Page       int
	PageSize   int
	TotalPages int

	CanPrevious bool
	CanNext     bool

	Empty        bool
	EmptyMessage string
	// Failed is set when the page could not be loaded; the renderer offers a retry
	Failed bool

	// Hidden holds the hidden column keys, sorted
	Hidden []string
	// Toggles describes every hideable column
	Toggles []ColumnToggle
}

// ColumnToggle is the visibility control of one hideable column
type ColumnToggle struct {
	Key     string
	Title   string
	Visible bool
	// CanHide is false for a visible column at the MinVisibleColumns floor
	CanHide bool
}

// NewView builds the view of a fetched page. The state is aligned with the
// page actually served.
func NewView[T any](st querystate.State, res listing.Result[T], columns []Column[T], emptyMessage string) View[T] {
	if emptyMessage == "" {
		emptyMessage = DefaultEmptyMessage
	}
	page := res.Page
	if page < 1 {
		page = querystate.DefaultPage
	}
	st = st.WithPage(page)

	rows := res.Data
	if rows == nil {
		rows = []T{}
	}
	totalPages := max(res.TotalPages, 1)
	return View[T]{
		Rows:         rows,
		Columns:      columns,
		State:        st,
		Total:        res.Total,
		Page:         page,
		PageSize:     res.PageSize,
		TotalPages:   totalPages,
		CanPrevious:  page > 1,
		CanNext:      page < totalPages,
		Empty:        res.Total == 0,
		EmptyMessage: emptyMessage,
		Failed:       res.Failed,
	}
}

// Render returns the cell text of column c for row
func (c Column[T]) Render(row *T) string {
	if c.Cell == nil {
		return ""
	}
	return c.Cell(row)
}

// VisibleColumns returns the columns not in hidden, in declaration order
func VisibleColumns[T any](columns []Column[T], hidden map[string]bool) []Column[T] {
	out := make([]Column[T], 0, len(columns))
	for _, c := range columns {
		if !hidden[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

// CanHide reports whether hiding key keeps at least MinVisibleColumns
// hideable columns on screen
func CanHide[T any](columns []Column[T], hidden map[string]bool, key string) bool {
	visible := 0
	found := false
	for _, c := range columns {
		if !c.Hideable || hidden[c.Key] {
			continue
		}
		visible++
		if c.Key == key {
			found = true
		}
	}
	return found && visible-1 >= MinVisibleColumns
}

// ColumnToggles describes the hideable columns given hidden
func ColumnToggles[T any](columns []Column[T], hidden map[string]bool) []ColumnToggle {
	var out []ColumnToggle
	for _, c := range columns {
		if !c.Hideable {
			continue
		}
		out = append(out, ColumnToggle{
			Key:     c.Key,
			Title:   c.Title,
			Visible: !hidden[c.Key],
			CanHide: CanHide(columns, hidden, c.Key),
		})
	}
	return out
}

// HiddenKeys returns the keys set in hidden, sorted
func HiddenKeys(hidden map[string]bool) []string {
	out := make([]string, 0, len(hidden))
	for k, v := range hidden {
		if v {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// DecodeHidden reads hidden column keys from query values. Keys may repeat
// or be comma-separated; blanks and duplicates are dropped. Whether a key
// may actually be hidden is decided by the Table.
func DecodeHidden(values url.Values) []string {
	var out []string
	for _, raw := range values[ParamHide] {
		for _, k := range strings.Split(raw, ",") {
			k = strings.TrimSpace(k)
			if k == "" || slices.Contains(out, k) {
				continue
			}
			out = append(out, k)
		}
	}
	return out
}
