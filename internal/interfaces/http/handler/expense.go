package handler

import (
	"net/http"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense API endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *appfinance.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *appfinance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        page      query  int     false  "Page number"  default(1)
// @Param        pageSize  query  int     false  "Page size"    default(10)
// @Param        search    query  string  false  "Search text"
// @Param        verified  query  []string false "Verified facet" collectionFormat(multi) Enums(true,false)
// @Param        sortBy    query  string  false  "Sort column"  default(created_at)
// @Param        sortOrder query  string  false  "Sort order"   Enums(asc,desc) default(desc)
// @Success      200 {object} dto.Response{data=[]ExpenseResponse,meta=dto.Meta}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	result := h.expenseService.FetchPage(c.Request.Context(), listState(c, querystate.Expenses))
	c.JSON(http.StatusOK, dto.NewPageResponse(mapPage(result.AsPage(), toExpenseResponse), result.Failed))
}

// Create godoc
// @ID           createExpense
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.Response{data=ExpenseResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	var req CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), actor, appfinance.CreateExpenseInput{
		BudgetID: optionalUUID(req.BudgetID),
		Amount:   req.Amount,
		Category: req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toExpenseResponse(expense))
}

// Verify godoc
// @ID           verifyExpense
// @Summary      Mark an expense as verified
// @Description  FINANCE only
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} dto.Response{data=ExpenseResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/verify [post]
func (h *ExpenseHandler) Verify(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	expense, err := h.expenseService.Verify(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toExpenseResponse(expense))
}
