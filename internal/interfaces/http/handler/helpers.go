package handler

import (
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// mapPage converts the rows of a page, keeping its window.
// The result always carries a non-nil slice so empty pages encode as [].
func mapPage[T, R any](p shared.Page[T], fn func(*T) R) shared.Page[R] {
	out := make([]R, len(p.Data))
	for i := range p.Data {
		out[i] = fn(&p.Data[i])
	}
	return shared.Page[R]{
		Data:       out,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// listState decodes the list query parameters for schema
func listState(c *gin.Context, schema querystate.Schema) querystate.State {
	return querystate.Decode(schema, c.Request.URL.Query())
}

// optionalUUID parses an already validated optional UUID field
func optionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
