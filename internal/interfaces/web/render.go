package web

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Query keys carrying the outcome of a redirected form post
const (
	paramNotice = "notice"
	paramError  = "error"
)

var funcs = template.FuncMap{
	"money": money,
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "never"
		}
		return t.Format("2006-01-02 15:04")
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// pageData is the root value of every page template
type pageData struct {
	AppName   string
	Title     string
	Principal *identity.Principal
	UserLabel string
	Nav       []navLink
	Notice    string
	Error     string
	Data      any
}

type navLink struct {
	Label  string
	URL    string
	Active bool
}

var navItems = []navLink{
	{Label: "Home", URL: "/home"},
	{Label: "Budgets", URL: "/budgets"},
	{Label: "Cash requests", URL: "/cash-requests"},
	{Label: "Expenses", URL: "/expenses"},
	{Label: "Users", URL: "/users"},
	{Label: "Settings", URL: "/settings"},
}

// notices are the success messages a redirect may name
var notices = map[string]string{
	"signed_out":             "You have been signed out.",
	"reset_sent":             "If an account exists for this email, a reset link has been sent.",
	"password_reset":         "Password updated. Sign in with your new password.",
	"profile_updated":        "Profile updated.",
	"budget_created":         "Budget added.",
	"cash_request_created":   "Cash request submitted.",
	"cash_request_approved":  "Cash request approved.",
	"cash_request_rejected":  "Cash request rejected.",
	"cash_request_disbursed": "Cash request disbursed.",
	"cash_request_deleted":   "Cash request deleted.",
	"expense_created":        "Expense recorded.",
	"expense_verified":       "Expense verified.",
	"role_updated":           "Role updated.",
}

// failures name the domain errors a redirect may report
var failures = map[string]*shared.DomainError{
	"budget_denied":     finance.ErrBudgetCreateDenied,
	"budget_not_found":  appfinance.ErrBudgetNotFound,
	"budget_overspent":  finance.ErrBudgetOverspent,
	"decision_denied":   finance.ErrCashDecisionDenied,
	"delete_denied":     finance.ErrCashDeleteDenied,
	"already_decided":   finance.ErrCashRequestDecided,
	"not_approved":      finance.ErrCashNotApproved,
	"verify_denied":     finance.ErrVerifyDenied,
	"already_verified":  finance.ErrAlreadyVerified,
	"role_denied":       identity.ErrRoleChangeDenied,
	"purpose_too_long":  finance.ErrPurposeTooLong,
	"category_too_long": finance.ErrCategoryTooLong,
}

// genericFailures cover domain errors by code
var genericFailures = map[string]string{
	"forbidden":     "Your role does not allow this action.",
	"not_found":     "That record no longer exists.",
	"invalid_state": "That record can no longer be changed.",
	"invalid_input": "Some fields were invalid. Check the form and try again.",
	"failed":        "Something went wrong. Please try again.",
}

// failureKey names err for a redirect
func failureKey(err error) string {
	for key, known := range failures {
		if errors.Is(err, known) {
			return key
		}
	}
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return "failed"
	}
	switch domainErr.Code {
	case "FORBIDDEN":
		return "forbidden"
	case "NOT_FOUND":
		return "not_found"
	case "INVALID_STATE":
		return "invalid_state"
	case "INVALID_INPUT":
		return "invalid_input"
	}
	return "failed"
}

func failureMessage(key string) string {
	if known, ok := failures[key]; ok {
		return known.Message
	}
	return genericFailures[key]
}

// formError is the message shown for a failed form submission. Domain
// messages are fixed strings and safe to display; anything else is generic.
func formError(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != "INTERNAL_ERROR" {
		return domainErr.Message
	}
	return genericFailures["failed"]
}

// page builds the common page data for the current request
func (p *Pages) page(c *gin.Context, title string, data any) pageData {
	pd := pageData{
		AppName: p.deps.AppName,
		Title:   title,
		Notice:  notices[c.Query(paramNotice)],
		Error:   failureMessage(c.Query(paramError)),
		Data:    data,
	}
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return pd
	}
	pd.Principal = principal
	pd.UserLabel = principal.Name
	if pd.UserLabel == "" {
		pd.UserLabel = principal.Email
	}
	path := c.Request.URL.Path
	for _, item := range navItems {
		if !p.gate.Permissions.Allows(principal.Role, item.URL) {
			continue
		}
		item.Active = path == item.URL
		pd.Nav = append(pd.Nav, item)
	}
	return pd
}

// render writes the named template. Pages are never cached.
func (p *Pages) render(c *gin.Context, status int, name string, data pageData) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, name, data)
}

// fail renders the error page for an unexpected fault
func (p *Pages) fail(c *gin.Context, msg string, err error) {
	logger.WithLogger(c.Request.Context(), p.deps.Logger).Error(msg, zap.Error(err))
	p.renderStatus(c, http.StatusInternalServerError)
}
