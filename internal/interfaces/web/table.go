package web

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/interfaces/web/datatable"
	"github.com/gin-gonic/gin"
)

// fetchFunc adapts a function to listing.Fetcher
type fetchFunc[T any] func(ctx context.Context, st querystate.State) listing.Result[T]

func (f fetchFunc[T]) FetchPage(ctx context.Context, st querystate.State) listing.Result[T] {
	return f(ctx, st)
}

// listSpec describes one server-rendered list
type listSpec[T any] struct {
	Path         string
	Schema       querystate.Schema
	Columns      []datatable.Column[T]
	Fetcher      listing.Fetcher[T]
	EmptyMessage string
	EmptyAction  *navLink
	// Actions returns the row buttons allowed for the viewer
	Actions func(*T) []rowAction
}

// tableModel is the non-generic form of a datatable.View handed to the
// "table" template
type tableModel struct {
	Path  string
	Links datatable.Links
	Rows  []tableRow

	Total       int64
	Page        int
	TotalPages  int
	CanPrevious bool
	CanNext     bool

	Empty        bool
	EmptyMessage string
	EmptyAction  *navLink
	Failed       bool
	Filtered     bool

	Search string
	// Hidden carries the rest of the state through the search form
	Hidden []hiddenField
	// Query is the encoded state posted back by row actions
	Query      string
	HasActions bool
	Colspan    int
}

type tableRow struct {
	Cells   []string
	Actions []rowAction
}

// rowAction is a one-button form posting to URL
type rowAction struct {
	Label  string
	URL    string
	Name   string
	Value  string
	Danger bool
}

type hiddenField struct {
	Name  string
	Value string
}

// loadTable fetches the list named by the request query. When the page
// served differs from the one asked for, the client is sent to the
// canonical URL instead and ok is false.
func loadTable[T any](c *gin.Context, spec listSpec[T]) (model *tableModel, ok bool) {
	ctx := c.Request.Context()
	query := c.Request.URL.Query()
	st := querystate.Decode(spec.Schema, query)

	tbl := datatable.New(ctx, datatable.Config[T]{
		Schema:       spec.Schema,
		Columns:      spec.Columns,
		Fetcher:      spec.Fetcher,
		EmptyMessage: spec.EmptyMessage,
	}, st)
	defer tbl.Close()
	for _, key := range datatable.DecodeHidden(query) {
		tbl.HideColumn(key)
	}

	v := tbl.Load(ctx)
	if !v.Failed && v.Page != st.Page {
		c.Redirect(http.StatusFound, datatable.ListURL(spec.Path, spec.Schema, v.State, v.Hidden))
		return nil, false
	}
	return newTableModel(spec, v), true
}

func newTableModel[T any](spec listSpec[T], v datatable.View[T]) *tableModel {
	m := &tableModel{
		Path:         spec.Path,
		Links:        datatable.BuildLinks(spec.Path, spec.Schema, v),
		Total:        v.Total,
		Page:         v.Page,
		TotalPages:   v.TotalPages,
		CanPrevious:  v.CanPrevious,
		CanNext:      v.CanNext,
		Empty:        v.Empty,
		EmptyMessage: v.EmptyMessage,
		Failed:       v.Failed,
		Filtered:     v.State.IsFiltered(),
		Search:       v.State.Search,
		Query:        datatable.ListValues(spec.Schema, v.State, v.Hidden).Encode(),
		HasActions:   spec.Actions != nil,
		Colspan:      len(v.Columns),
	}
	// The "no results" hint with a create link only fits an unfiltered list
	if !m.Filtered {
		m.EmptyAction = spec.EmptyAction
	}
	if m.HasActions {
		m.Colspan++
	}

	for name, values := range datatable.ListValues(spec.Schema, v.State.WithSearch(""), v.Hidden) {
		for _, value := range values {
			m.Hidden = append(m.Hidden, hiddenField{Name: name, Value: value})
		}
	}
	slices.SortStableFunc(m.Hidden, func(a, b hiddenField) int { return strings.Compare(a.Name, b.Name) })

	m.Rows = make([]tableRow, 0, len(v.Rows))
	for i := range v.Rows {
		row := &v.Rows[i]
		cells := make([]string, len(v.Columns))
		for j, col := range v.Columns {
			cells[j] = col.Render(row)
		}
		tr := tableRow{Cells: cells}
		if spec.Actions != nil {
			tr.Actions = spec.Actions(row)
		}
		m.Rows = append(m.Rows, tr)
	}
	return m
}
