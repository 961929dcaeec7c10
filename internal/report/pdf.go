package report

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// newReportPDF sets up a landscape A4 page with the shared title block.
func newReportPDF(title string, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)
	return pdf
}

func pdfTableHeader(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 7, label, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func pdfTableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string) {
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func booksPDF(rows []BookRow, now time.Time) ([]byte, error) {
	pdf := newReportPDF("Book Catalog", now)

	widths := []float64{12, 70, 32, 45, 14, 38, 50, 16}
	labels := []string{"Id", "Title", "ISBN", "Publisher", "Year", "Category", "Authors", "Avail."}
	pdfTableHeader(pdf, widths, labels)

	for _, row := range rows {
		available := "Yes"
		if !row.IsAvailable {
			available = "No"
		}
		pdfTableRow(pdf, widths, []string{
			strconv.FormatInt(row.ID, 10),
			truncate(row.Title, 42),
			row.ISBN,
			truncate(row.Publisher, 27),
			strconv.Itoa(row.Year),
			truncate(row.Category, 22),
			truncate(strings.Join(row.Authors, "; "), 30),
			available,
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loansPDF(rows []LoanRow, now time.Time) ([]byte, error) {
	pdf := newReportPDF("Loan History", now)

	widths := []float64{12, 78, 55, 30, 30, 30, 24}
	labels := []string{"Id", "Book", "Employee", "Loan Date", "Due Date", "Returned", "Status"}
	pdfTableHeader(pdf, widths, labels)

	for _, row := range rows {
		returned := "-"
		if row.ReturnDate != nil {
			returned = row.ReturnDate.Format(exportDateLayout)
		}
		pdfTableRow(pdf, widths, []string{
			strconv.FormatInt(row.ID, 10),
			truncate(row.BookTitle, 47),
			truncate(row.EmployeeName, 33),
			row.LoanDate.Format(exportDateLayout),
			row.DueDate.Format(exportDateLayout),
			returned,
			row.Status(now),
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
