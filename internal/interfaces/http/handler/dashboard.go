package handler

import (
	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the home dashboard figures
type DashboardHandler struct {
	BaseHandler
	dashboardService *appfinance.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *appfinance.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @ID           getDashboardSummary
// @Summary      Dashboard summary
// @Description  Budget totals, pending cash requests and unverified expenses. A failed card is flagged, not fatal.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=appfinance.Summary}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.Summary(c.Request.Context(), actor))
}
