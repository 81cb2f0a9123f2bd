package handler

import (
	"net/http"
	"time"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/infrastructure/export"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BudgetHandler handles budget API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *appfinance.BudgetService
	now           func() time.Time
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *appfinance.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, now: time.Now}
}

// List godoc
// @ID           listBudgets
// @Summary      List budgets
// @Description  One page of budgets. Search matches department and period.
// @Tags         budgets
// @Produce      json
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        pageSize   query  int     false  "Page size"    Enums(10,20,25,30,40,50) default(10)
// @Param        search     query  string  false  "Search text"
// @Param        status     query  []string false "Status facet" collectionFormat(multi)
// @Param        department query  []string false "Department facet" collectionFormat(multi)
// @Param        sortBy     query  string  false  "Sort column"  default(created_at)
// @Param        sortOrder  query  string  false  "Sort order"   Enums(asc,desc) default(desc)
// @Success      200 {object} dto.Response{data=[]BudgetResponse,meta=dto.Meta}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	result := h.budgetService.FetchPage(c.Request.Context(), listState(c, querystate.Budgets))
	c.JSON(http.StatusOK, dto.NewPageResponse(mapPage(result.AsPage(), toBudgetResponse), result.Failed))
}

// Create godoc
// @ID           createBudget
// @Summary      Add a budget
// @Description  FINANCE only. Status defaults to PENDING.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        request body CreateBudgetRequest true "Budget"
// @Success      201 {object} dto.Response{data=BudgetResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	var req CreateBudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), actor, appfinance.CreateBudgetInput{
		Department: req.Department,
		Period:     req.Period,
		Amount:     req.Amount,
		Status:     req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toBudgetResponse(budget))
}

// Export godoc
// @ID           exportBudgets
// @Summary      Export budgets as PDF
// @Description  Renders the page selected by the same query parameters as the list
// @Tags         budgets
// @Produce      application/pdf
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        pageSize   query  int     false  "Page size"    default(10)
// @Param        search     query  string  false  "Search text"
// @Success      200 {file} binary
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets/export.pdf [get]
func (h *BudgetHandler) Export(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	st := listState(c, querystate.Budgets)
	result := h.budgetService.FetchPage(ctx, st)
	if result.Failed {
		h.InternalError(c, "Budgets could not be loaded")
		return
	}

	now := h.now()
	by := actor.Name
	if by == "" {
		by = actor.Email
	}
	pdf, err := export.BudgetReport(result.Data, export.ReportMeta{
		GeneratedAt: now,
		GeneratedBy: by,
		Criteria:    querystate.Describe(querystate.Budgets, st),
		Page:        result.Page,
		Pages:       result.TotalPages,
		Total:       result.Total,
	})
	if err != nil {
		logger.L(ctx).Error("Failed to render budget report", zap.Error(err))
		h.InternalError(c, "Budget report could not be rendered")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.BudgetReportFilename(now)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
