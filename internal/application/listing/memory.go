package listing

import (
	"context"
	"slices"
	"strings"

	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Field reads one column of a record as text
type Field[T any] func(T) string

// Columns binds list column names to typed accessors
type Columns[T any] struct {
	// ID breaks ties so equal sort keys keep a stable order across pages
	ID Field[T]
	// Sort holds the sortable columns
	Sort map[string]Field[T]
	// Search holds the columns matched by free-text search
	Search []Field[T]
	// Facets holds the columns filtered by set membership
	Facets map[string]Field[T]
}

// Matches reports whether row satisfies every facet and the search text.
// Surrounding whitespace in the search text is ignored.
func (c Columns[T]) Matches(row T, filter shared.Filter) bool {
	for key, values := range filter.Filters {
		if len(values) == 0 {
			continue
		}
		field, ok := c.Facets[key]
		if !ok {
			continue
		}
		if !slices.Contains(values, field(row)) {
			return false
		}
	}
	term := strings.TrimSpace(filter.Search)
	if term == "" || len(c.Search) == 0 {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range c.Search {
		if strings.Contains(strings.ToLower(field(row)), needle) {
			return true
		}
	}
	return false
}

// SortFunc returns a comparator ordering by the named column with language
// neutral collation, then by ID ascending. Unknown columns fall back to fallback.
func (c Columns[T]) SortFunc(column string, order shared.SortOrder, fallback string) func(a, b T) int {
	key, ok := c.Sort[column]
	if !ok {
		key = c.Sort[fallback]
	}
	col := collate.New(language.Und)
	return func(a, b T) int {
		if key != nil {
			cmp := col.CompareString(key(a), key(b))
			if order == shared.SortDesc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		if c.ID == nil {
			return 0
		}
		return strings.Compare(c.ID(a), c.ID(b))
	}
}

// sliceSource is a Source over rows already held in memory
type sliceSource[T any] struct {
	rows        []T
	columns     Columns[T]
	defaultSort string
}

func (s *sliceSource[T]) filter(f shared.Filter) []T {
	out := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if s.columns.Matches(row, f) {
			out = append(out, row)
		}
	}
	return out
}

func (s *sliceSource[T]) Count(_ context.Context, f shared.Filter) (int64, error) {
	return int64(len(s.filter(f))), nil
}

func (s *sliceSource[T]) Find(_ context.Context, f shared.Filter) ([]T, error) {
	rows := s.filter(f)
	slices.SortStableFunc(rows, s.columns.SortFunc(f.OrderBy, f.OrderDir, s.defaultSort))

	start := f.Offset()
	if start >= len(rows) {
		return []T{}, nil
	}
	end := min(start+f.PageSize, len(rows))
	return rows[start:end], nil
}

// Loader returns the complete record set of a list
type Loader[T any] func(ctx context.Context) ([]T, error)

// InMemoryProvider serves lists whose backing store cannot filter or page.
// The full record set is loaded per fetch, concurrent loads are shared, then
// the rows are filtered, sorted and sliced with the same clamping and
// failure behaviour as Provider.
type InMemoryProvider[T any] struct {
	name    string
	load    Loader[T]
	columns Columns[T]
	schema  querystate.Schema
	logger  *zap.Logger
	metrics *fetchMetrics
	group   singleflight.Group
}

// NewInMemoryProvider creates an InMemoryProvider for the list described by schema
func NewInMemoryProvider[T any](schema querystate.Schema, load Loader[T], columns Columns[T], logger *zap.Logger, opts ...Option) *InMemoryProvider[T] {
	o := buildOptions(opts)
	return &InMemoryProvider[T]{
		name:    schema.Name,
		load:    load,
		columns: columns,
		schema:  schema,
		logger:  logger,
		metrics: newFetchMetrics(o.meter),
	}
}

// FetchPage fetches the page described by st
func (p *InMemoryProvider[T]) FetchPage(ctx context.Context, st querystate.State) Result[T] {
	filter := normalize(st.Filter())
	if !p.schema.Sortable(filter.OrderBy) {
		filter.OrderBy = p.schema.DefaultSort
	}

	// joined callers share this load
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do(p.name, func() (any, error) {
		return p.load(loadCtx)
	})
	if err != nil {
		logFailure(ctx, p.logger, p.name, filter.Page, filter.PageSize, "load", err)
		p.metrics.fail(ctx, p.name, "load")
		return Failed[T](filter.Page, filter.PageSize)
	}

	src := &sliceSource[T]{rows: v.([]T), columns: p.columns, defaultSort: p.schema.DefaultSort}
	inner := &Provider[T]{name: p.name, source: src, logger: p.logger, metrics: p.metrics}
	return inner.Fetch(ctx, filter)
}
