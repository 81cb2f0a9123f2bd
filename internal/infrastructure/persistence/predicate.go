package persistence

import (
	"maps"
	"slices"
	"strings"

	"github.com/findash/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// facetFunc narrows a query to rows whose facet value is one of values
type facetFunc func(query *gorm.DB, values []string) *gorm.DB

// listSpec describes how a list maps its filter onto SQL
type listSpec struct {
	sortFields  map[string]bool
	defaultSort string
	search      []string
	facets      map[string]facetFunc
}

// inSet matches rows whose column is in the value set
func inSet(column string) facetFunc {
	return func(query *gorm.DB, values []string) *gorm.DB {
		return query.Where(column+" IN ?", values)
	}
}

// boolSet matches a nullable boolean column, where NULL counts as false
func boolSet(column string) facetFunc {
	return func(query *gorm.DB, values []string) *gorm.DB {
		var wantTrue, wantFalse bool
		for _, v := range values {
			switch strings.ToLower(v) {
			case "true":
				wantTrue = true
			case "false":
				wantFalse = true
			}
		}
		switch {
		case wantTrue && wantFalse:
			return query
		case wantTrue:
			return query.Where(column+" = ?", true)
		case wantFalse:
			return query.Where("("+column+" IS NULL OR "+column+" = ?)", false)
		}
		return query
	}
}

// applyPredicate adds the filter's facet and search conditions. Count and Find
// share it so they always agree on the matching set.
func applyPredicate(query *gorm.DB, filter shared.Filter, spec listSpec) *gorm.DB {
	for _, key := range slices.Sorted(maps.Keys(filter.Filters)) {
		values := filter.Filters[key]
		facet, ok := spec.facets[key]
		if !ok || len(values) == 0 {
			continue
		}
		query = facet(query, values)
	}

	term := strings.TrimSpace(filter.Search)
	if term != "" && len(spec.search) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(spec.search))
		args := make([]any, len(spec.search))
		for i, column := range spec.search {
			clauses[i] = "LOWER(" + column + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return query
}

// applyPage orders by the validated sort column with id as tiebreak and slices the page
func applyPage(query *gorm.DB, filter shared.Filter, spec listSpec) *gorm.DB {
	column := ValidateSortField(filter.OrderBy, spec.sortFields, spec.defaultSort)
	query = query.Order(column + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
