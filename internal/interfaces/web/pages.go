// Package web serves the server-rendered dashboard pages.
//
// Every page route sits behind middleware.Gate. Pages ship no scripts:
// navigation is plain links whose query string is the list state, and
// mutations are form posts answered with a redirect back to the list.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	appfinance "github.com/findash/backend/internal/application/finance"
	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/findash/backend/internal/interfaces/web/datatable"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Deps are the services behind the pages
type Deps struct {
	Auth         *appidentity.AuthService
	Users        *appidentity.UserService
	Budgets      *appfinance.BudgetService
	CashRequests *appfinance.CashRequestService
	Expenses     *appfinance.ExpenseService
	Dashboard    *appfinance.DashboardService

	Cookie  config.CookieConfig
	AppName string
	// APIBase prefixes links into the JSON API, such as the PDF export
	APIBase string
	Logger  *zap.Logger
}

// Pages holds the page handlers
type Pages struct {
	deps      Deps
	gate      middleware.GateConfig
	templates *template.Template
}

// NewPages parses the embedded templates
func NewPages(deps Deps) (*Pages, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.AppName == "" {
		deps.AppName = "FinDash"
	}
	if deps.APIBase == "" {
		deps.APIBase = "/api/v1"
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	middleware.SetupValidator()
	return &Pages{
		deps:      deps,
		gate:      middleware.DefaultGateConfig(deps.Logger),
		templates: tmpl,
	}, nil
}

// Register mounts the static assets and the gated page routes on engine
func (p *Pages) Register(engine *gin.Engine) error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to mount static assets: %w", err)
	}
	engine.SetHTMLTemplate(p.templates)
	engine.StaticFS("/static", http.FS(static))

	g := engine.Group("", middleware.Gate(p.gate))

	g.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, p.gate.HomePath) })
	g.GET("/login", p.loginForm)
	g.POST("/login", p.login)
	g.GET("/signup", p.signUpForm)
	g.POST("/signup", p.signUp)
	g.GET("/forgot-password", p.forgotPasswordForm)
	g.POST("/forgot-password", p.forgotPassword)
	g.GET("/reset-password", p.resetPasswordForm)
	g.POST("/reset-password", p.resetPassword)
	g.POST("/auth/signout", p.signOut)

	g.GET("/home", p.home)
	g.GET("/settings", p.settings)
	g.POST("/settings", p.updateSettings)

	g.GET("/budgets", p.budgets)
	g.POST("/budgets", p.createBudget)

	g.GET("/cash-requests", p.cashRequests)
	g.GET("/cash-requests/new", p.newCashRequest)
	g.POST("/cash-requests", p.createCashRequest)
	g.POST("/cash-requests/:id/approve", p.approveCashRequest)
	g.POST("/cash-requests/:id/reject", p.rejectCashRequest)
	g.POST("/cash-requests/:id/disburse", p.disburseCashRequest)
	g.POST("/cash-requests/:id/delete", p.deleteCashRequest)

	g.GET("/expenses", p.expenses)
	g.POST("/expenses", p.createExpense)
	g.POST("/expenses/:id/verify", p.verifyExpense)

	g.GET("/users", p.users)
	g.POST("/users/:id/role", p.updateRole)

	for path := range statusPages {
		g.GET(path, p.statusPage)
	}
	for path := range documents {
		g.GET(path, p.document)
	}
	return nil
}

// bindForm binds a posted form into dst
func bindForm(c *gin.Context, dst any) error {
	return c.ShouldBindWith(dst, binding.Form)
}

// backTo answers a form post with a 303 to the list at path. The list state
// travels in the hidden "q" field and is re-encoded, so only a canonical
// list query reaches the Location header.
func backTo(c *gin.Context, path string, schema querystate.Schema, key, code string) {
	values, _ := url.ParseQuery(c.PostForm("q"))
	out := datatable.ListValues(schema, querystate.Decode(schema, values), datatable.DecodeHidden(values))
	out.Set(key, code)
	c.Redirect(http.StatusSeeOther, path+"?"+out.Encode())
}

// seeOther redirects a form post to location with a notice
func seeOther(c *gin.Context, location, notice string) {
	if notice != "" {
		location += "?" + url.Values{paramNotice: {notice}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, location)
}
