// Package export renders list pages into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportMeta describes the list view a report was taken from
type ReportMeta struct {
	GeneratedAt time.Time
	GeneratedBy string
	// Criteria is a human readable summary of the search, filters and sort
	Criteria string
	Page     int
	Pages    int
	Total    int64
}

var budgetColumns = []struct {
	title string
	width float64
	align string
}{
	{"Department", 40, "L"},
	{"Period", 28, "L"},
	{"Amount", 34, "R"},
	{"Used", 34, "R"},
	{"Utilization", 24, "R"},
	{"Status", 30, "L"},
}

// BudgetReport renders one page of budgets as an A4 PDF
func BudgetReport(rows []finance.Budget, meta ReportMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Budgets", false)
	pdf.SetAuthor(meta.GeneratedBy, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Budgets")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s by %s", meta.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), orDash(meta.GeneratedBy)))
	pdf.Ln(5)
	if meta.Criteria != "" {
		pdf.MultiCell(0, 5, "View: "+meta.Criteria, "", "", false)
	}
	pdf.Cell(0, 5, fmt.Sprintf("Page %d of %d, %d budgets in total", meta.Page, max(meta.Pages, 1), meta.Total))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, col := range budgetColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(totalWidth(), 7, "No results.", "1", 1, "C", false, 0, "")
	}
	for i := range rows {
		b := &rows[i]
		cells := []string{
			b.Department.String(),
			b.Period,
			b.Amount.StringFixed(2),
			b.Used.StringFixed(2),
			b.Utilization().Mul(hundred).StringFixed(1) + "%",
			titleCase(b.Status.String()),
		}
		for j, col := range budgetColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render budget report: %w", err)
	}
	return buf.Bytes(), nil
}

// BudgetReportFilename names the download for a report taken at t
func BudgetReportFilename(t time.Time) string {
	return "budgets-" + t.UTC().Format("20060102-1504") + ".pdf"
}

func totalWidth() float64 {
	var w float64
	for _, col := range budgetColumns {
		w += col.width
	}
	return w
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}
