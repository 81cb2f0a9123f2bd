package web

import "embed"

// templatesFS holds the page templates
//
//go:embed templates/*.html
var templatesFS embed.FS

// staticFS holds the stylesheet served under /static
//
//go:embed static/*
var staticFS embed.FS
