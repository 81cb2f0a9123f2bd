package handler

import (
	"net/http"

	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles the user directory endpoints
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  FINANCE only. Accounts without a role are listed as STAFF.
// @Tags         users
// @Produce      json
// @Param        page      query  int     false  "Page number"  default(1)
// @Param        pageSize  query  int     false  "Page size"    default(10)
// @Param        search    query  string  false  "Search text"
// @Param        role      query  []string false "Role facet" collectionFormat(multi) Enums(STAFF,FINANCE)
// @Param        sortBy    query  string  false  "Sort column"  default(full_name)
// @Param        sortOrder query  string  false  "Sort order"   Enums(asc,desc) default(asc)
// @Success      200 {object} dto.Response{data=[]identity.UserSummary,meta=dto.Meta}
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	result := h.userService.FetchPage(c.Request.Context(), listState(c, querystate.Users))
	c.JSON(http.StatusOK, dto.NewPageResponse(result.AsPage(), result.Failed))
}

// UpdateRole godoc
// @ID           updateUserRole
// @Summary      Change a user's role
// @Description  FINANCE only. The target's existing sessions are revoked.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string            true "User ID" format(uuid)
// @Param        request body UpdateRoleRequest true "Role"
// @Success      200 {object} dto.Response{data=identity.UserSummary}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	role, ok := identity.ParseRole(req.Role)
	if !ok {
		h.BadRequest(c, "Unknown role")
		return
	}

	summary, err := h.userService.UpdateRole(c.Request.Context(), actor, id, role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
