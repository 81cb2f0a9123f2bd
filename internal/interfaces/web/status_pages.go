package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type statusView struct {
	Code    int
	Message string
	Link    navLink
}

// statusPages are the targets of the gate's redirects
var statusPages = map[string]statusView{
	"/401": {Code: http.StatusUnauthorized, Message: "Sign in to continue.", Link: navLink{Label: "Sign in", URL: "/login"}},
	"/403": {Code: http.StatusForbidden, Message: "Your role does not allow access to this page.", Link: navLink{Label: "Back to home", URL: "/home"}},
	"/500": {Code: http.StatusInternalServerError, Message: "Something went wrong on our side.", Link: navLink{Label: "Back to home", URL: "/home"}},
	"/503": {Code: http.StatusServiceUnavailable, Message: "The service is temporarily unavailable.", Link: navLink{Label: "Try again", URL: "/home"}},
}

type documentView struct {
	Paragraphs []string
}

var documents = map[string]struct {
	title string
	view  documentView
}{
	"/privacy": {title: "Privacy", view: documentView{Paragraphs: []string{
		"We store your email address, full name and role to run your account.",
		"Budget, cash request and expense records are visible to your organisation according to your role.",
		"Session cookies are used only to keep you signed in.",
	}}},
	"/terms": {title: "Terms", view: documentView{Paragraphs: []string{
		"Accounts are personal and must not be shared.",
		"Requests and expenses you submit are recorded with your name for audit purposes.",
	}}},
}

func (p *Pages) statusPage(c *gin.Context) {
	view := statusPages[c.Request.URL.Path]
	p.render(c, view.Code, "status", p.page(c, http.StatusText(view.Code), view))
}

// renderStatus renders the status page for code in place
func (p *Pages) renderStatus(c *gin.Context, code int) {
	for _, view := range statusPages {
		if view.Code == code {
			p.render(c, code, "status", p.page(c, http.StatusText(code), view))
			return
		}
	}
	c.Status(code)
}

func (p *Pages) document(c *gin.Context) {
	doc := documents[c.Request.URL.Path]
	p.render(c, http.StatusOK, "document", p.page(c, doc.title, doc.view))
}
