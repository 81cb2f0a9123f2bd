package datatable

import (
	"net/url"
	"testing"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewAt(st querystate.State, total int64) View[row] {
	res := listing.NewResult(shared.NewPage[row](nil, total, st.Page, st.PageSize))
	return NewView(st, res, testColumns, "")
}

func TestBuildLinks_Pagination(t *testing.T) {
	v := viewAt(testSchema.Default().WithPage(2), 25)
	links := BuildLinks("/cash-requests", testSchema, v)

	assert.Equal(t, "/cash-requests", links.First)
	assert.Equal(t, "/cash-requests", links.Previous)
	assert.Equal(t, "/cash-requests?page=3", links.Next)
	assert.Equal(t, "/cash-requests?page=3", links.Last)
	assert.Equal(t, "/cash-requests?page=2", links.Refresh)
}

func TestBuildLinks_LastPageStaysPut(t *testing.T) {
	v := viewAt(testSchema.Default().WithPage(3), 25)
	links := BuildLinks("/rows", testSchema, v)
	assert.Equal(t, links.Refresh, links.Next)
	assert.Equal(t, "/rows?page=2", links.Previous)
}

func TestBuildLinks_Facets(t *testing.T) {
	st := testSchema.Default().WithPage(2).ToggleFilter("status", "PENDING").WithPage(2)
	links := BuildLinks("/rows", testSchema, viewAt(st, 25))

	require.Len(t, links.Facets, 1)
	opts := links.Facets[0].Options
	require.Len(t, opts, 2)
	assert.True(t, opts[0].Selected)
	assert.Equal(t, "/rows", opts[0].URL, "unselecting returns to the first page")
	assert.False(t, opts[1].Selected)
	assert.Equal(t, "/rows?status=PENDING&status=APPROVED", opts[1].URL)

	assert.Equal(t, "/rows", links.Clear)
}

func TestBuildLinks_Headers(t *testing.T) {
	links := BuildLinks("/rows", testSchema, viewAt(testSchema.Default(), 3))
	require.Len(t, links.Headers, len(testColumns))

	byKey := map[string]HeaderLink{}
	for _, h := range links.Headers {
		byKey[h.Key] = h
	}
	assert.Empty(t, byKey["id"].URL)
	assert.Empty(t, byKey["status"].URL)
	assert.Equal(t, "/rows?sortBy=amount&sortOrder=asc", byKey["amount"].URL)
	assert.Equal(t, "/rows?sortOrder=asc", byKey["created_at"].URL)
	assert.Empty(t, byKey["amount"].Direction)

	st := testSchema.Default().WithSort("amount", shared.SortAsc)
	links = BuildLinks("/rows", testSchema, viewAt(st, 3))
	for _, h := range links.Headers {
		if h.Key == "amount" {
			assert.Equal(t, "asc", h.Direction)
			assert.Equal(t, "/rows?sortBy=amount", h.URL)
		}
	}

	st = testSchema.Default().WithSort("amount", shared.SortDesc)
	links = BuildLinks("/rows", testSchema, viewAt(st, 3))
	for _, h := range links.Headers {
		if h.Key == "amount" {
			assert.Equal(t, "desc", h.Direction)
			assert.Equal(t, "/rows", h.URL, "third click restores the default")
		}
	}
}

func TestBuildLinks_DefaultColumnHeaderCycles(t *testing.T) {
	columns := []Column[row]{
		{Key: "full_name", Title: "Name", Sortable: true},
		{Key: "role", Title: "Role", Sortable: true},
	}
	schema := querystate.Users
	st := schema.Default().ToggleFilter("role", "FINANCE")

	var clicks []string
	for range 4 {
		res := listing.NewResult(shared.NewPage[row](nil, 3, st.Page, st.PageSize))
		links := BuildLinks("/users", schema, NewView(st, res, columns, ""))
		require.Equal(t, "full_name", links.Headers[0].Key)
		target := links.Headers[0].URL
		clicks = append(clicks, target)

		u, err := url.Parse(target)
		require.NoError(t, err)
		st = querystate.Decode(schema, u.Query())
	}
	assert.Equal(t, []string{
		"/users?role=FINANCE&sortOrder=desc",
		"/users?role=FINANCE",
		"/users?role=FINANCE&sortOrder=desc",
		"/users?role=FINANCE",
	}, clicks)
}

func TestBuildLinks_ColumnToggles(t *testing.T) {
	withHidden := func(hidden map[string]bool) View[row] {
		v := viewAt(testSchema.Default(), 25)
		v.Columns = VisibleColumns(testColumns, hidden)
		v.Hidden = HiddenKeys(hidden)
		v.Toggles = ColumnToggles(testColumns, hidden)
		return v
	}
	urls := func(links Links) map[string]string {
		out := map[string]string{}
		for _, c := range links.Columns {
			out[c.Key] = c.URL
		}
		return out
	}

	t.Run("all visible", func(t *testing.T) {
		links := BuildLinks("/rows", testSchema, withHidden(nil))
		assert.Equal(t, map[string]string{
			"amount":     "/rows?hide=amount",
			"status":     "/rows?hide=status",
			"created_at": "/rows?hide=created_at",
		}, urls(links), "only hideable columns get a toggle")
		assert.Empty(t, links.ResetColumns)
	})

	t.Run("floor reached", func(t *testing.T) {
		links := BuildLinks("/rows", testSchema, withHidden(map[string]bool{"status": true}))
		assert.Equal(t, map[string]string{
			"amount":     "",
			"status":     "/rows",
			"created_at": "",
		}, urls(links))
		assert.Equal(t, "/rows", links.ResetColumns)
		assert.Equal(t, "/rows?hide=status&page=2", links.Next, "navigation keeps hidden columns")
		assert.Len(t, links.Headers, 3)
	})
}

func TestDecodeHidden(t *testing.T) {
	values := url.Values{ParamHide: {"status, amount", "status", " "}}
	assert.Equal(t, []string{"status", "amount"}, DecodeHidden(values))
	assert.Empty(t, DecodeHidden(url.Values{}))
}

func TestBuildLinks_PageSizes(t *testing.T) {
	st := testSchema.Default().WithPageSize(20).WithPage(2)
	links := BuildLinks("/rows", testSchema, viewAt(st, 45))

	require.Len(t, links.PageSizes, len(querystate.PageSizes))
	for _, ps := range links.PageSizes {
		assert.Equal(t, ps.Size == 20, ps.Current)
	}
	assert.Equal(t, "/rows", links.PageSizes[0].URL)
	assert.Equal(t, "/rows?pageSize=50", links.PageSizes[len(links.PageSizes)-1].URL)
}
