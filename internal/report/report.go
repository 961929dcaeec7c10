package report

import (
	"context"
	"time"
)

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	TotalBooks     int `json:"totalBooks"`
	TotalEmployees int `json:"totalEmployees"`
	ActiveLoans    int `json:"activeLoans"`
	OverdueLoans   int `json:"overdueLoans"`
}

// BookRow is one line of the books export.
type BookRow struct {
	ID          int64
	Title       string
	ISBN        string
	Publisher   string
	Year        int
	Category    string
	Authors     []string
	IsAvailable bool
}

// LoanRow is one line of the loans export.
type LoanRow struct {
	ID           int64
	BookTitle    string
	EmployeeName string
	LoanDate     time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
}

// Status classifies a loan row for reporting.
func (l LoanRow) Status(now time.Time) string {
	switch {
	case l.ReturnDate != nil:
		return "Returned"
	case l.DueDate.Before(now):
		return "Overdue"
	default:
		return "Borrowed"
	}
}

type Repository interface {
	Stats(ctx context.Context, now time.Time) (DashboardStats, error)
	BookRows(ctx context.Context) ([]BookRow, error)
	LoanRows(ctx context.Context) ([]LoanRow, error)
}
