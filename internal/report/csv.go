package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

const exportDateLayout = "2006-01-02"

func booksCSV(rows []BookRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Id", "Title", "ISBN", "Publisher", "Year", "Category", "Authors", "Available"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		available := "Yes"
		if !row.IsAvailable {
			available = "No"
		}
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Title,
			row.ISBN,
			row.Publisher,
			strconv.Itoa(row.Year),
			row.Category,
			strings.Join(row.Authors, "; "),
			available,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func loansCSV(rows []LoanRow, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Id", "Book", "Employee", "Loan Date", "Due Date", "Return Date", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		returned := ""
		if row.ReturnDate != nil {
			returned = row.ReturnDate.Format(exportDateLayout)
		}
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.BookTitle,
			row.EmployeeName,
			row.LoanDate.Format(exportDateLayout),
			row.DueDate.Format(exportDateLayout),
			returned,
			row.Status(now),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
