package web

import (
	"net/http"

	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/findash/backend/internal/interfaces/web/datatable"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	usersPath    = "/users"
	settingsPath = "/settings"
)

var userColumns = []datatable.Column[identity.UserSummary]{
	{Key: "full_name", Title: "Name", Sortable: true, Cell: func(u *identity.UserSummary) string { return u.FullName }},
	{Key: "role", Title: "Role", Sortable: true, Hideable: true, Cell: func(u *identity.UserSummary) string { return u.Role.String() }},
}

type usersView struct {
	Table *tableModel
}

type roleForm struct {
	Role string `form:"role" binding:"required,role"`
}

func (p *Pages) users(c *gin.Context) {
	table, ok := loadTable(c, listSpec[identity.UserSummary]{
		Path:    usersPath,
		Schema:  querystate.Users,
		Columns: userColumns,
		Fetcher: p.deps.Users,
		Actions: func(u *identity.UserSummary) []rowAction {
			target := identity.RoleFinance
			if u.Role == identity.RoleFinance {
				target = identity.RoleStaff
			}
			return []rowAction{{
				Label: "Make " + target.String(),
				URL:   usersPath + "/" + u.ID + "/role",
				Name:  "role",
				Value: target.String(),
			}}
		},
	})
	if !ok {
		return
	}
	p.render(c, http.StatusOK, "users", p.page(c, "Users", usersView{Table: table}))
}

func (p *Pages) updateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		backTo(c, usersPath, querystate.Users, paramError, "not_found")
		return
	}
	var form roleForm
	if err := bindForm(c, &form); err != nil {
		backTo(c, usersPath, querystate.Users, paramError, "invalid_input")
		return
	}
	role, _ := identity.ParseRole(form.Role)
	if _, err := p.deps.Users.UpdateRole(c.Request.Context(), middleware.GetPrincipal(c), id, role); err != nil {
		backTo(c, usersPath, querystate.Users, paramError, failureKey(err))
		return
	}
	backTo(c, usersPath, querystate.Users, paramNotice, "role_updated")
}

type settingsForm struct {
	FullName string `form:"full_name" binding:"max=100"`
}

func (p *Pages) settings(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	user, err := p.deps.Auth.GetCurrentUser(c.Request.Context(), principal.ID)
	if err != nil {
		p.fail(c, "Failed to load profile", err)
		return
	}
	p.render(c, http.StatusOK, "settings", p.page(c, "Settings", user))
}

// updateSettings renames the account and reissues the session so the
// token carries the new name
func (p *Pages) updateSettings(c *gin.Context) {
	var form settingsForm
	if err := bindForm(c, &form); err != nil {
		c.Redirect(http.StatusSeeOther, settingsPath+"?"+paramError+"=invalid_input")
		return
	}
	session, err := p.deps.Auth.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c), form.FullName)
	if err != nil {
		c.Redirect(http.StatusSeeOther, settingsPath+"?"+paramError+"="+failureKey(err))
		return
	}
	middleware.SetSessionCookie(c, p.deps.Cookie, session.AccessToken, session.ExpiresAt)
	seeOther(c, settingsPath, "profile_updated")
}
