package datatable

import (
	"testing"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestNewView_AlignsStateWithServedPage(t *testing.T) {
	st := testSchema.Default().WithPage(9)
	res := listing.NewResult(shared.NewPage([]row{{ID: "a"}}, 21, 3, 10))

	v := NewView(st, res, testColumns, "")
	assert.Equal(t, 3, v.Page)
	assert.Equal(t, 3, v.State.Page)
	assert.True(t, v.CanPrevious)
	assert.False(t, v.CanNext)
	assert.False(t, v.Empty)
	assert.Equal(t, DefaultEmptyMessage, v.EmptyMessage)
}

func TestNewView_Failed(t *testing.T) {
	v := NewView(testSchema.Default().WithPage(2), listing.Failed[row](2, 10), testColumns, "Nothing here")
	assert.True(t, v.Failed)
	assert.True(t, v.Empty)
	assert.Equal(t, "Nothing here", v.EmptyMessage)
	assert.NotNil(t, v.Rows)
	assert.Equal(t, 2, v.Page)
}

func TestColumn_Render(t *testing.T) {
	r := &row{ID: "x", Amount: 42}
	assert.Equal(t, "42", testColumns[1].Render(r))
	assert.Equal(t, "", testColumns[2].Render(r))
}

func TestCanHide(t *testing.T) {
	cases := []struct {
		name   string
		hidden map[string]bool
		key    string
		want   bool
	}{
		{"three visible", nil, "amount", true},
		{"floor reached", map[string]bool{"status": true}, "amount", false},
		{"not hideable", nil, "id", false},
		{"unknown column", nil, "nope", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanHide(testColumns, tc.hidden, tc.key))
		})
	}
}

func TestNextSort(t *testing.T) {
	def := testSchema.Default()

	st, explicit := NextSort(testSchema, def, false, "amount")
	assert.True(t, explicit)
	assert.Equal(t, "amount", st.SortBy)
	assert.Equal(t, shared.SortAsc, st.SortOrder)
	assert.Equal(t, "asc", SortDirection(testSchema, st, "amount"))
	assert.Equal(t, "", SortDirection(testSchema, st, "created_at"))

	st, explicit = NextSort(testSchema, st, explicit, "amount")
	assert.True(t, explicit)
	assert.Equal(t, shared.SortDesc, st.SortOrder)

	st, explicit = NextSort(testSchema, st, explicit, "amount")
	assert.False(t, explicit)
	assert.Equal(t, def.SortBy, st.SortBy)
	assert.Equal(t, def.SortOrder, st.SortOrder)
	assert.False(t, IsExplicitSort(testSchema, st))
}
