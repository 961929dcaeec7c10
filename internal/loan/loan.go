package loan

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means the loan id itself does not resolve.
	ErrNotFound = errors.New("loan not found")
	// ErrBookNotFound and ErrEmployeeNotFound are invalid references
	// supplied by the caller.
	ErrBookNotFound     = errors.New("book not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrBookUnavailable and ErrAlreadyReturned are state conflicts.
	ErrBookUnavailable = errors.New("book is not available")
	ErrAlreadyReturned = errors.New("loan already returned")
)

// Loan is one book held by one employee. A loan is Active until its
// return date is recorded; a returned loan is terminal.
type Loan struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"bookId"`
	BookTitle    string     `json:"bookTitle"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	LoanDate     time.Time  `json:"loanDate"`
	DueDate      time.Time  `json:"dueDate"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	IsReturned   bool       `json:"isReturned"`
	Notes        *string    `json:"notes,omitempty"`
}

// BookRef is the slice of a book the lifecycle manager needs.
type BookRef struct {
	ID          int64
	Title       string
	IsAvailable bool
}

// EmployeeRef is the slice of an employee the lifecycle manager needs.
type EmployeeRef struct {
	ID       int64
	FullName string
}

type Repository interface {
	List(ctx context.Context) ([]Loan, error)
	GetByID(ctx context.Context, id int64) (Loan, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Loan, error)
	ListActive(ctx context.Context) ([]Loan, error)
	// ListOverdue returns active loans past due, earliest due date first.
	ListOverdue(ctx context.Context, now time.Time) ([]Loan, error)

	GetBookRef(ctx context.Context, bookID int64) (BookRef, error)
	GetEmployeeRef(ctx context.Context, employeeID int64) (EmployeeRef, error)

	// CreateActive inserts the loan and flips the book to unavailable in
	// one transaction. The flag flip is conditional on the book still
	// being available; a lost race surfaces as ErrBookUnavailable.
	CreateActive(ctx context.Context, l *Loan) error

	// MarkReturned records the return and flips the book back to
	// available in one transaction. Returning an already-returned loan
	// surfaces as ErrAlreadyReturned.
	MarkReturned(ctx context.Context, id int64, returnDate time.Time, notes *string) error
}
