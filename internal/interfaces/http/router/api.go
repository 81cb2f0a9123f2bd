package router

import (
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/handler"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the JSON API handlers
type Handlers struct {
	Auth        *handler.AuthHandler
	Budget      *handler.BudgetHandler
	CashRequest *handler.CashRequestHandler
	Expense     *handler.ExpenseHandler
	Dashboard   *handler.DashboardHandler
	User        *handler.UserHandler
	System      *handler.SystemHandler
}

// APIOptions carries the guards applied to the API groups
type APIOptions struct {
	Logger *zap.Logger
	// AuthLimiter throttles the unauthenticated auth endpoints; nil disables it
	AuthLimiter *middleware.RateLimiter
}

// APIGroups builds the dashboard's route groups. Every group except system
// and the public auth endpoints requires a session; budget creation and the
// user directory additionally require FINANCE.
func APIGroups(h Handlers, opts APIOptions) []*DomainGroup {
	financeOnly := middleware.RequireRole(opts.Logger, identity.RoleFinance)
	requireAuth := middleware.RequireAuth()

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	authPublic := NewDomainGroup("auth", "/auth")
	if opts.AuthLimiter != nil {
		authPublic.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	authPublic.POST("/signup", h.Auth.SignUp)
	authPublic.POST("/login", h.Auth.Login)
	authPublic.POST("/forgot-password", h.Auth.ForgotPassword)
	authPublic.POST("/reset-password", h.Auth.ResetPassword)

	session := NewDomainGroup("session", "/auth").Use(requireAuth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.GetCurrentUser)
	session.PATCH("/profile", h.Auth.UpdateProfile)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(requireAuth)
	dashboard.GET("/summary", h.Dashboard.Summary)

	budgets := NewDomainGroup("budgets", "/budgets").Use(requireAuth)
	budgets.GET("", h.Budget.List)
	budgets.GET("/export.pdf", h.Budget.Export)
	budgets.POST("", financeOnly, h.Budget.Create)

	cash := NewDomainGroup("cash-requests", "/cash-requests").Use(requireAuth)
	cash.GET("", h.CashRequest.List)
	cash.POST("", h.CashRequest.Create)
	cash.DELETE("/:id", h.CashRequest.Delete)
	decisions := cash.Group("cash-decisions", "/:id").Use(financeOnly)
	decisions.POST("/approve", h.CashRequest.Approve)
	decisions.POST("/reject", h.CashRequest.Reject)
	decisions.POST("/disburse", h.CashRequest.Disburse)

	expenses := NewDomainGroup("expenses", "/expenses").Use(requireAuth)
	expenses.GET("", h.Expense.List)
	expenses.POST("", h.Expense.Create)
	expenses.POST("/:id/verify", financeOnly, h.Expense.Verify)

	users := NewDomainGroup("users", "/users").Use(requireAuth, financeOnly)
	users.GET("", h.User.List)
	users.PATCH("/:id/role", h.User.UpdateRole)

	return []*DomainGroup{system, authPublic, session, dashboard, budgets, cash, expenses, users}
}

// RegisterProbes mounts the unversioned liveness and health endpoints
func RegisterProbes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/ping", system.Ping)
	engine.GET("/healthz", system.Health)
}
