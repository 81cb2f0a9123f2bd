package handler

import (
	"context"
	"net/http"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CashRequestHandler handles cash request API endpoints
type CashRequestHandler struct {
	BaseHandler
	cashRequestService *appfinance.CashRequestService
}

// NewCashRequestHandler creates a new CashRequestHandler
func NewCashRequestHandler(cashRequestService *appfinance.CashRequestService) *CashRequestHandler {
	return &CashRequestHandler{cashRequestService: cashRequestService}
}

// List godoc
// @ID           listCashRequests
// @Summary      List cash requests
// @Description  FINANCE sees every request, STAFF only their own
// @Tags         cash-requests
// @Produce      json
// @Param        page      query  int     false  "Page number"  default(1)
// @Param        pageSize  query  int     false  "Page size"    default(10)
// @Param        search    query  string  false  "Search text"
// @Param        status    query  []string false "Status facet" collectionFormat(multi)
// @Param        sortBy    query  string  false  "Sort column"  default(created_at)
// @Param        sortOrder query  string  false  "Sort order"   Enums(asc,desc) default(desc)
// @Success      200 {object} dto.Response{data=[]CashRequestResponse,meta=dto.Meta}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests [get]
func (h *CashRequestHandler) List(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	result := h.cashRequestService.FetchPage(c.Request.Context(), actor, listState(c, querystate.CashRequests))
	c.JSON(http.StatusOK, dto.NewPageResponse(mapPage(result.AsPage(), toCashRequestResponse), result.Failed))
}

// Create godoc
// @ID           createCashRequest
// @Summary      Request funds
// @Tags         cash-requests
// @Accept       json
// @Produce      json
// @Param        request body CreateCashRequestRequest true "Cash request"
// @Success      201 {object} dto.Response{data=CashRequestResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests [post]
func (h *CashRequestHandler) Create(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	var req CreateCashRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cr, err := h.cashRequestService.Create(c.Request.Context(), actor, appfinance.CreateCashRequestInput{
		BudgetID: optionalUUID(req.BudgetID),
		Amount:   req.Amount,
		Purpose:  req.Purpose,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCashRequestResponse(cr))
}

// Approve godoc
// @ID           approveCashRequest
// @Summary      Approve a pending cash request
// @Tags         cash-requests
// @Produce      json
// @Param        id path string true "Cash request ID" format(uuid)
// @Success      200 {object} dto.Response{data=CashRequestResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests/{id}/approve [post]
func (h *CashRequestHandler) Approve(c *gin.Context) {
	h.transition(c, h.cashRequestService.Approve)
}

// Reject godoc
// @ID           rejectCashRequest
// @Summary      Reject a pending cash request
// @Tags         cash-requests
// @Produce      json
// @Param        id path string true "Cash request ID" format(uuid)
// @Success      200 {object} dto.Response{data=CashRequestResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests/{id}/reject [post]
func (h *CashRequestHandler) Reject(c *gin.Context) {
	h.transition(c, h.cashRequestService.Reject)
}

// Disburse godoc
// @ID           disburseCashRequest
// @Summary      Disburse an approved cash request
// @Description  Consumes the linked budget when there is one
// @Tags         cash-requests
// @Produce      json
// @Param        id path string true "Cash request ID" format(uuid)
// @Success      200 {object} dto.Response{data=CashRequestResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests/{id}/disburse [post]
func (h *CashRequestHandler) Disburse(c *gin.Context) {
	h.transition(c, h.cashRequestService.Disburse)
}

type cashTransition func(ctx context.Context, actor *identity.Principal, id uuid.UUID) (*finance.CashRequest, error)

func (h *CashRequestHandler) transition(c *gin.Context, apply cashTransition) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	cr, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCashRequestResponse(cr))
}

// Delete godoc
// @ID           deleteCashRequest
// @Summary      Delete a cash request
// @Description  Owners may delete their own pending requests
// @Tags         cash-requests
// @Param        id path string true "Cash request ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-requests/{id} [delete]
func (h *CashRequestHandler) Delete(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if err := h.cashRequestService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
