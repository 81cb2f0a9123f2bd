package web

import (
	"context"
	"fmt"
	"net/http"

	appfinance "github.com/findash/backend/internal/application/finance"
	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/findash/backend/internal/interfaces/web/datatable"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	budgetsPath      = "/budgets"
	cashRequestsPath = "/cash-requests"
	expensesPath     = "/expenses"

	// budgetChoiceLimit bounds the budget picker of the request and expense forms
	budgetChoiceLimit = 50
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

var budgetColumns = []datatable.Column[finance.Budget]{
	{Key: "department", Title: "Department", Sortable: true, Cell: func(b *finance.Budget) string { return b.Department.String() }},
	{Key: "period", Title: "Period", Sortable: true, Hideable: true, Cell: func(b *finance.Budget) string { return b.Period }},
	{Key: "amount", Title: "Amount", Sortable: true, Hideable: true, Cell: func(b *finance.Budget) string { return money(b.Amount) }},
	{Key: "used", Title: "Used", Sortable: true, Hideable: true, Cell: func(b *finance.Budget) string { return money(b.Used) }},
	{Key: "remaining", Title: "Remaining", Hideable: true, Cell: func(b *finance.Budget) string { return money(b.Remaining()) }},
	{Key: "status", Title: "Status", Sortable: true, Hideable: true, Cell: func(b *finance.Budget) string { return b.Status.String() }},
	{Key: "created_at", Title: "Created", Sortable: true, Hideable: true, Cell: func(b *finance.Budget) string { return b.CreatedAt.Format("2006-01-02") }},
}

var cashRequestColumns = []datatable.Column[finance.CashRequest]{
	{Key: "created_at", Title: "Requested", Sortable: true, Cell: func(cr *finance.CashRequest) string { return cr.CreatedAt.Format("2006-01-02") }},
	{Key: "amount", Title: "Amount", Sortable: true, Hideable: true, Cell: func(cr *finance.CashRequest) string { return money(cr.Amount) }},
	{Key: "purpose", Title: "Purpose", Hideable: true, Cell: func(cr *finance.CashRequest) string { return cr.PurposeOrEmpty() }},
	{Key: "status", Title: "Status", Sortable: true, Hideable: true, Cell: func(cr *finance.CashRequest) string { return cr.Status.String() }},
}

var expenseColumns = []datatable.Column[finance.Expense]{
	{Key: "created_at", Title: "Recorded", Sortable: true, Cell: func(e *finance.Expense) string { return e.CreatedAt.Format("2006-01-02") }},
	{Key: "amount", Title: "Amount", Sortable: true, Hideable: true, Cell: func(e *finance.Expense) string { return money(e.Amount) }},
	{Key: "category", Title: "Category", Sortable: true, Hideable: true, Cell: func(e *finance.Expense) string { return e.CategoryOrEmpty() }},
	{Key: "verified", Title: "Verified", Hideable: true, Cell: func(e *finance.Expense) string {
		if e.IsVerified() {
			return "Yes"
		}
		return "No"
	}},
}

type option struct {
	Value string
	Label string
}

type homeView struct {
	Summary appfinance.Summary
}

func (p *Pages) home(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	summary := p.deps.Dashboard.Summary(c.Request.Context(), principal)
	p.render(c, http.StatusOK, "home", p.page(c, "Home", homeView{Summary: summary}))
}

// Budgets

type budgetsView struct {
	Table       *tableModel
	CanCreate   bool
	ExportURL   string
	Departments []option
	Statuses    []option
}

type budgetForm struct {
	Department string `form:"department" binding:"required,department"`
	Period     string `form:"period" binding:"required,budget_period"`
	Amount     string `form:"amount" binding:"required,numeric"`
	Status     string `form:"status" binding:"omitempty,budget_status"`
}

func (p *Pages) budgets(c *gin.Context) {
	table, ok := loadTable(c, listSpec[finance.Budget]{
		Path:    budgetsPath,
		Schema:  querystate.Budgets,
		Columns: budgetColumns,
		Fetcher: p.deps.Budgets,
	})
	if !ok {
		return
	}

	view := budgetsView{
		Table:     table,
		CanCreate: finance.CanCreateBudget(middleware.GetPrincipal(c)),
		ExportURL: p.deps.APIBase + "/budgets/export.pdf",
	}
	if table.Query != "" {
		view.ExportURL += "?" + table.Query
	}
	for _, d := range finance.Departments() {
		view.Departments = append(view.Departments, option{Value: d.String(), Label: d.String()})
	}
	for _, s := range finance.BudgetStatuses() {
		view.Statuses = append(view.Statuses, option{Value: s.String(), Label: s.String()})
	}
	p.render(c, http.StatusOK, "budgets", p.page(c, "Budgets", view))
}

func (p *Pages) createBudget(c *gin.Context) {
	var form budgetForm
	if err := bindForm(c, &form); err != nil {
		backTo(c, budgetsPath, querystate.Budgets, paramError, "invalid_input")
		return
	}
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		backTo(c, budgetsPath, querystate.Budgets, paramError, "invalid_input")
		return
	}
	_, err = p.deps.Budgets.Create(c.Request.Context(), middleware.GetPrincipal(c), appfinance.CreateBudgetInput{
		Department: form.Department,
		Period:     form.Period,
		Amount:     amount,
		Status:     form.Status,
	})
	if err != nil {
		backTo(c, budgetsPath, querystate.Budgets, paramError, failureKey(err))
		return
	}
	backTo(c, budgetsPath, querystate.Budgets, paramNotice, "budget_created")
}

// budgetChoices lists approved budgets for the request and expense forms.
// A failed load leaves the picker with only "No budget".
func (p *Pages) budgetChoices(ctx context.Context) []option {
	st := querystate.Budgets.Default().
		ToggleFilter(finance.FilterStatus, finance.BudgetStatusApproved.String()).
		WithPageSize(budgetChoiceLimit)
	res := p.deps.Budgets.FetchPage(ctx, st)
	out := make([]option, 0, len(res.Data))
	for i := range res.Data {
		b := &res.Data[i]
		out = append(out, option{
			Value: b.ID.String(),
			Label: fmt.Sprintf("%s %s (%s left)", b.Department, b.Period, money(b.Remaining())),
		})
	}
	return out
}

// Cash requests

type cashRequestsView struct {
	Table *tableModel
}

type cashRequestFormView struct {
	Budgets []option
}

type cashRequestForm struct {
	BudgetID string `form:"budget_id" binding:"omitempty,uuid"`
	Amount   string `form:"amount" binding:"required,numeric"`
	Purpose  string `form:"purpose" binding:"max=500"`
}

func (p *Pages) cashRequests(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	svc := p.deps.CashRequests
	isFinance := principal.Is(identity.RoleFinance)

	table, ok := loadTable(c, listSpec[finance.CashRequest]{
		Path:    cashRequestsPath,
		Schema:  querystate.CashRequests,
		Columns: cashRequestColumns,
		Fetcher: fetchFunc[finance.CashRequest](func(ctx context.Context, st querystate.State) listing.Result[finance.CashRequest] {
			return svc.FetchPage(ctx, principal, st)
		}),
		EmptyMessage: "No cash requests yet.",
		EmptyAction:  &navLink{Label: "Create a request", URL: cashRequestsPath + "/new"},
		Actions: func(cr *finance.CashRequest) []rowAction {
			base := cashRequestsPath + "/" + cr.ID.String()
			var actions []rowAction
			if isFinance && cr.Status.CanDecide() {
				actions = append(actions,
					rowAction{Label: "Approve", URL: base + "/approve"},
					rowAction{Label: "Reject", URL: base + "/reject", Danger: true})
			}
			if isFinance && cr.Status.CanDisburse() {
				actions = append(actions, rowAction{Label: "Disburse", URL: base + "/disburse"})
			}
			if cr.CanDelete(principal) {
				actions = append(actions, rowAction{Label: "Delete", URL: base + "/delete", Danger: true})
			}
			return actions
		},
	})
	if !ok {
		return
	}
	p.render(c, http.StatusOK, "cash_requests", p.page(c, "Cash requests", cashRequestsView{Table: table}))
}

func (p *Pages) newCashRequest(c *gin.Context) {
	view := cashRequestFormView{Budgets: p.budgetChoices(c.Request.Context())}
	p.render(c, http.StatusOK, "cash_request_new", p.page(c, "New cash request", view))
}

func (p *Pages) createCashRequest(c *gin.Context) {
	var form cashRequestForm
	if err := bindForm(c, &form); err != nil {
		c.Redirect(http.StatusSeeOther, cashRequestsPath+"/new?"+paramError+"=invalid_input")
		return
	}
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		c.Redirect(http.StatusSeeOther, cashRequestsPath+"/new?"+paramError+"=invalid_input")
		return
	}
	_, err = p.deps.CashRequests.Create(c.Request.Context(), middleware.GetPrincipal(c), appfinance.CreateCashRequestInput{
		BudgetID: parseOptionalID(form.BudgetID),
		Amount:   amount,
		Purpose:  form.Purpose,
	})
	if err != nil {
		c.Redirect(http.StatusSeeOther, cashRequestsPath+"/new?"+paramError+"="+failureKey(err))
		return
	}
	seeOther(c, cashRequestsPath, "cash_request_created")
}

func (p *Pages) approveCashRequest(c *gin.Context) {
	p.cashAction(c, "cash_request_approved", func(ctx context.Context, actor *identity.Principal, id uuid.UUID) error {
		_, err := p.deps.CashRequests.Approve(ctx, actor, id)
		return err
	})
}

func (p *Pages) rejectCashRequest(c *gin.Context) {
	p.cashAction(c, "cash_request_rejected", func(ctx context.Context, actor *identity.Principal, id uuid.UUID) error {
		_, err := p.deps.CashRequests.Reject(ctx, actor, id)
		return err
	})
}

func (p *Pages) disburseCashRequest(c *gin.Context) {
	p.cashAction(c, "cash_request_disbursed", func(ctx context.Context, actor *identity.Principal, id uuid.UUID) error {
		_, err := p.deps.CashRequests.Disburse(ctx, actor, id)
		return err
	})
}

func (p *Pages) deleteCashRequest(c *gin.Context) {
	p.cashAction(c, "cash_request_deleted", p.deps.CashRequests.Delete)
}

func (p *Pages) cashAction(c *gin.Context, notice string, act func(context.Context, *identity.Principal, uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		backTo(c, cashRequestsPath, querystate.CashRequests, paramError, "not_found")
		return
	}
	if err := act(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		backTo(c, cashRequestsPath, querystate.CashRequests, paramError, failureKey(err))
		return
	}
	backTo(c, cashRequestsPath, querystate.CashRequests, paramNotice, notice)
}

// Expenses

type expensesView struct {
	Table   *tableModel
	Budgets []option
}

type expenseForm struct {
	BudgetID string `form:"budget_id" binding:"omitempty,uuid"`
	Amount   string `form:"amount" binding:"required,numeric"`
	Category string `form:"category" binding:"max=100"`
}

func (p *Pages) expenses(c *gin.Context) {
	isFinance := middleware.GetPrincipal(c).Is(identity.RoleFinance)
	table, ok := loadTable(c, listSpec[finance.Expense]{
		Path:    expensesPath,
		Schema:  querystate.Expenses,
		Columns: expenseColumns,
		Fetcher: p.deps.Expenses,
		Actions: func(e *finance.Expense) []rowAction {
			if !isFinance || e.IsVerified() {
				return nil
			}
			return []rowAction{{Label: "Verify", URL: expensesPath + "/" + e.ID.String() + "/verify"}}
		},
	})
	if !ok {
		return
	}
	view := expensesView{Table: table, Budgets: p.budgetChoices(c.Request.Context())}
	p.render(c, http.StatusOK, "expenses", p.page(c, "Expenses", view))
}

func (p *Pages) createExpense(c *gin.Context) {
	var form expenseForm
	if err := bindForm(c, &form); err != nil {
		backTo(c, expensesPath, querystate.Expenses, paramError, "invalid_input")
		return
	}
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		backTo(c, expensesPath, querystate.Expenses, paramError, "invalid_input")
		return
	}
	_, err = p.deps.Expenses.Create(c.Request.Context(), middleware.GetPrincipal(c), appfinance.CreateExpenseInput{
		BudgetID: parseOptionalID(form.BudgetID),
		Amount:   amount,
		Category: form.Category,
	})
	if err != nil {
		backTo(c, expensesPath, querystate.Expenses, paramError, failureKey(err))
		return
	}
	backTo(c, expensesPath, querystate.Expenses, paramNotice, "expense_created")
}

func (p *Pages) verifyExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		backTo(c, expensesPath, querystate.Expenses, paramError, "not_found")
		return
	}
	if _, err := p.deps.Expenses.Verify(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		backTo(c, expensesPath, querystate.Expenses, paramError, failureKey(err))
		return
	}
	backTo(c, expensesPath, querystate.Expenses, paramNotice, "expense_verified")
}

func parseOptionalID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
