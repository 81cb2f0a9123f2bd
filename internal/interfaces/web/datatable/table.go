package datatable

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a typed search is applied
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Table
type Config[T any] struct {
	Schema       querystate.Schema
	Columns      []Column[T]
	Fetcher      listing.Fetcher[T]
	EmptyMessage string
	// Debounce overrides DefaultDebounce when positive
	Debounce time.Duration
	// RowKey identifies rows for selection
	RowKey func(*T) string
	// OnView is called with every view that gets applied
	OnView func(View[T])
	Logger *zap.Logger
}

// Table is a concurrency-safe list controller. Every navigational change
// produces exactly one fetch; typed search is debounced. Responses that
// arrive after a newer fetch was issued are discarded.
type Table[T any] struct {
	cfg Config[T]

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    querystate.State
	explicit bool
	hidden   map[string]bool
	selected map[string]bool
	seq      uint64
	view     View[T]
	timer    *time.Timer
	timerGen uint64
	closed   bool
}

// New creates a Table starting from st. ctx bounds background (debounced)
// fetches; Close cancels it.
func New[T any](ctx context.Context, cfg Config[T], st querystate.State) *Table[T] {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Table[T]{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		state:    st,
		explicit: IsExplicitSort(cfg.Schema, st),
		hidden:   map[string]bool{},
		selected: map[string]bool{},
	}
}

// State returns the current list state
func (t *Table[T]) State() querystate.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// View returns the last applied view
func (t *Table[T]) View() View[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Load fetches the current state
func (t *Table[T]) Load(ctx context.Context) View[T] {
	return t.apply(ctx, func(st querystate.State) querystate.State { return st })
}

// GoTo moves to page n
func (t *Table[T]) GoTo(ctx context.Context, n int) View[T] {
	return t.apply(ctx, func(st querystate.State) querystate.State { return st.WithPage(n) })
}

// Next moves forward one page when there is one
func (t *Table[T]) Next(ctx context.Context) View[T] {
	v := t.View()
	if !v.CanNext {
		return v
	}
	return t.GoTo(ctx, v.Page+1)
}

// Previous moves back one page when there is one
func (t *Table[T]) Previous(ctx context.Context) View[T] {
	v := t.View()
	if !v.CanPrevious {
		return v
	}
	return t.GoTo(ctx, v.Page-1)
}

// First jumps to the first page
func (t *Table[T]) First(ctx context.Context) View[T] {
	return t.GoTo(ctx, 1)
}

// Last jumps to the last known page
func (t *Table[T]) Last(ctx context.Context) View[T] {
	return t.GoTo(ctx, max(t.View().TotalPages, 1))
}

// SetPageSize changes the page size and returns to the first page
func (t *Table[T]) SetPageSize(ctx context.Context, n int) View[T] {
	return t.apply(ctx, func(st querystate.State) querystate.State { return st.WithPageSize(n) })
}

// ToggleFilter flips one facet value
func (t *Table[T]) ToggleFilter(ctx context.Context, key, value string) View[T] {
	return t.apply(ctx, func(st querystate.State) querystate.State { return st.ToggleFilter(key, value) })
}

// ClearFilters drops facet values and search text
func (t *Table[T]) ClearFilters(ctx context.Context) View[T] {
	t.stopTimer()
	return t.apply(ctx, func(st querystate.State) querystate.State { return st.ClearFilters() })
}

// ToggleSort advances the sort cycle of column key
func (t *Table[T]) ToggleSort(ctx context.Context, key string) View[T] {
	if !t.cfg.Schema.Sortable(key) {
		return t.View()
	}
	return t.apply(ctx, func(st querystate.State) querystate.State {
		next, explicit := NextSort(t.cfg.Schema, st, t.explicit, key)
		t.explicit = explicit
		return next
	})
}

// Search schedules q to be applied once typing pauses. Each call restarts
// the quiet period; only the last text is fetched.
func (t *Table[T]) Search(q string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.scheduleSearch(q, t.cfg.Debounce)
}

// scheduleSearch replaces any pending search. Callers hold t.mu.
func (t *Table[T]) scheduleSearch(q string, after time.Duration) {
	t.stopTimerLocked()
	gen := t.timerGen
	t.timer = time.AfterFunc(after, func() {
		t.mu.Lock()
		// a timer that fired after being replaced or stopped must not run
		if t.closed || gen != t.timerGen {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		t.apply(t.ctx, func(st querystate.State) querystate.State { return st.WithSearch(q) })
	})
}

// Close cancels a pending search and background fetches
func (t *Table[T]) Close() {
	t.mu.Lock()
	t.closed = true
	t.stopTimerLocked()
	t.mu.Unlock()
	t.cancel()
}

func (t *Table[T]) stopTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimerLocked()
}

func (t *Table[T]) stopTimerLocked() {
	t.timerGen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// apply computes the next state under the lock, fetches it outside the lock
// and installs the result only if no newer fetch was issued meanwhile
func (t *Table[T]) apply(ctx context.Context, next func(querystate.State) querystate.State) View[T] {
	t.mu.Lock()
	st := next(t.state)
	t.state = st
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	res := t.cfg.Fetcher.FetchPage(ctx, st)
	if !res.Failed && res.TotalPages > 0 && res.Page > res.TotalPages {
		// The fetcher served a page past the end; ask once more for the last page
		st = st.WithPage(res.TotalPages)
		res = t.cfg.Fetcher.FetchPage(ctx, st)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		logger.WithLogger(ctx, t.cfg.Logger).Debug("Discarded stale list response",
			zap.String("list", t.cfg.Schema.Name),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", t.seq))
		return t.view
	}
	v := NewView(st, res, nil, t.cfg.EmptyMessage)
	t.applyColumns(&v)
	t.state = v.State
	t.view = v
	if t.cfg.OnView != nil {
		t.cfg.OnView(v)
	}
	return v
}

// HideColumn hides a hideable column. It refuses, returning false, when
// fewer than MinVisibleColumns hideable columns would remain.
func (t *Table[T]) HideColumn(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !CanHide(t.cfg.Columns, t.hidden, key) {
		return false
	}
	t.hidden[key] = true
	t.applyColumns(&t.view)
	return true
}

// ShowColumn makes a hidden column visible again
func (t *Table[T]) ShowColumn(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hidden, key)
	t.applyColumns(&t.view)
}

// ResetColumns shows every column
func (t *Table[T]) ResetColumns() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.hidden)
	t.applyColumns(&t.view)
}

// applyColumns refreshes the column fields of v. Callers hold t.mu.
func (t *Table[T]) applyColumns(v *View[T]) {
	v.Columns = VisibleColumns(t.cfg.Columns, t.hidden)
	v.Hidden = HiddenKeys(t.hidden)
	v.Toggles = ColumnToggles(t.cfg.Columns, t.hidden)
}

// VisibleColumns returns the columns currently shown
func (t *Table[T]) VisibleColumns() []Column[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VisibleColumns(t.cfg.Columns, t.hidden)
}

// ToggleRow flips the selection of row. Selection is local to the table
// and never part of the list state.
func (t *Table[T]) ToggleRow(row *T) {
	if t.cfg.RowKey == nil {
		return
	}
	key := t.cfg.RowKey(row)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selected[key] {
		delete(t.selected, key)
	} else {
		t.selected[key] = true
	}
}

// SelectPage selects every row of the current page
func (t *Table[T]) SelectPage() {
	if t.cfg.RowKey == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.view.Rows {
		t.selected[t.cfg.RowKey(&t.view.Rows[i])] = true
	}
}

// ClearSelection deselects every row
func (t *Table[T]) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.selected)
}

// Selected returns the selected row keys in sorted order
func (t *Table[T]) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.selected))
	for k := range t.selected {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
