// Package listing fetches one page of a filtered, sorted list.
package listing

import (
	"context"
	"time"

	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Source is the data access a Provider pages over. Count and Find must apply
// the same predicate; Find additionally applies order and window.
type Source[T any] interface {
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Find(ctx context.Context, filter shared.Filter) ([]T, error)
}

// Result is a page plus whether it was produced by a failed fetch.
// A failed result is always an empty, single-page result.
type Result[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Failed     bool  `json:"failed"`
}

// NewResult wraps a successfully fetched page
func NewResult[T any](page shared.Page[T]) Result[T] {
	return Result[T]{
		Data:       page.Data,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// AsPage returns the result window without the failure flag
func (r Result[T]) AsPage() shared.Page[T] {
	return shared.Page[T]{
		Data:       r.Data,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}

// Fetcher is anything that can produce a page for a list state
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, st querystate.State) Result[T]
}

// Provider pages over a Source. It never returns an error: data access
// faults produce an empty page and an error-level log entry.
type Provider[T any] struct {
	name    string
	source  Source[T]
	logger  *zap.Logger
	metrics *fetchMetrics
}

// NewProvider creates a Provider named after the list it serves
func NewProvider[T any](name string, source Source[T], logger *zap.Logger, opts ...Option) *Provider[T] {
	o := buildOptions(opts)
	return &Provider[T]{name: name, source: source, logger: logger, metrics: newFetchMetrics(o.meter)}
}

// FetchPage fetches the page described by st
func (p *Provider[T]) FetchPage(ctx context.Context, st querystate.State) Result[T] {
	return p.Fetch(ctx, st.Filter())
}

// Fetch counts the rows matching filter, clamps the requested page to the
// last page, then fetches that page.
func (p *Provider[T]) Fetch(ctx context.Context, filter shared.Filter) (res Result[T]) {
	start := time.Now()
	defer func() { p.metrics.observe(ctx, p.name, start, res.Failed) }()

	filter = normalize(filter)
	ctx, span := telemetry.StartSpan(ctx, "listing", "fetch_page",
		telemetry.AttrList, p.name,
		telemetry.AttrPage, filter.Page,
		telemetry.AttrPageSize, filter.PageSize,
		telemetry.AttrSortBy, filter.OrderBy,
	)
	defer span.End()

	requested := filter.Page
	total, err := p.source.Count(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return p.fail(ctx, p.name, requested, filter.PageSize, "count", err)
	}

	totalPages := shared.TotalPages(total, filter.PageSize)
	filter.Page = shared.ClampPage(filter.Page, totalPages)
	telemetry.SetAttributes(span, telemetry.AttrTotal, total)

	if total == 0 {
		return NewResult(shared.NewPage[T](nil, 0, filter.Page, filter.PageSize))
	}

	rows, err := p.source.Find(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return p.fail(ctx, p.name, requested, filter.PageSize, "find", err)
	}
	if len(rows) > filter.PageSize {
		rows = rows[:filter.PageSize]
	}
	return NewResult(shared.NewPage(rows, total, filter.Page, filter.PageSize))
}

func (p *Provider[T]) fail(ctx context.Context, list string, page, pageSize int, stage string, err error) Result[T] {
	logFailure(ctx, p.logger, list, page, pageSize, stage, err)
	p.metrics.fail(ctx, list, stage)
	return Failed[T](page, pageSize)
}

func logFailure(ctx context.Context, l *zap.Logger, list string, page, pageSize int, stage string, err error) {
	logger.WithLogger(ctx, l).Error("list fetch failed",
		zap.String("list", list),
		zap.String("stage", stage),
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
		zap.Error(err),
	)
}

// Failed returns the result shown when a list cannot be loaded
func Failed[T any](page, pageSize int) Result[T] {
	res := NewResult(shared.EmptyPage[T](page, pageSize))
	res.Failed = true
	return res
}

func normalize(f shared.Filter) shared.Filter {
	if f.Page < 1 {
		f.Page = querystate.DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = querystate.DefaultPageSize
	}
	return f
}
