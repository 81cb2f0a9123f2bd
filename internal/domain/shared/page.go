package shared

// SortOrder is the direction of the single active sort column
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether the order is asc or desc
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Filter is the predicate and window handed to a list data source.
// Filters holds set-membership constraints: a record matches when, for every
// key, its field value is one of the listed values. Keys with empty value
// lists impose no constraint.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir SortOrder
	Search   string
	Filters  map[string][]string
}

// Offset returns the zero-based row offset of the page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Values returns the accepted values for a filter key
func (f Filter) Values(key string) []string {
	if f.Filters == nil {
		return nil
	}
	return f.Filters[key]
}

// Page is one window of an ordered, filtered result set
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize), and 1 when there are no rows
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	pages := int(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		pages++
	}
	return pages
}

// ClampPage bounds page into [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// NewPage creates a page result
func NewPage[T any](data []T, total int64, page, pageSize int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// EmptyPage returns a zero-total page echoing the requested window
func EmptyPage[T any](page, pageSize int) Page[T] {
	return NewPage[T](nil, 0, page, pageSize)
}

// IsEmpty reports whether the result set has no rows at all
func (p Page[T]) IsEmpty() bool {
	return p.Total == 0
}

// HasPrevious reports whether an earlier page exists
func (p Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}
