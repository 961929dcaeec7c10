package loan

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const loanColumns = `
	l.id, l.book_id, b.title, l.employee_id,
	e.first_name || ' ' || e.last_name,
	l.loan_date, l.due_date, l.return_date, l.is_returned, l.notes`

const loanFrom = `
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN employees e ON e.id = l.employee_id`

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(
		&l.ID, &l.BookID, &l.BookTitle, &l.EmployeeID, &l.EmployeeName,
		&l.LoanDate, &l.DueDate, &l.ReturnDate, &l.IsReturned, &l.Notes,
	)
	return l, err
}

func (r *PostgresRepo) queryLoans(ctx context.Context, query string, args ...any) ([]Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) List(ctx context.Context) ([]Loan, error) {
	return r.queryLoans(ctx, `SELECT `+loanColumns+loanFrom+` ORDER BY l.loan_date DESC`)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := scanLoan(r.db.QueryRow(timeoutCtx,
		`SELECT `+loanColumns+loanFrom+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]Loan, error) {
	return r.queryLoans(ctx,
		`SELECT `+loanColumns+loanFrom+` WHERE l.employee_id = $1 ORDER BY l.loan_date DESC`,
		employeeID)
}

func (r *PostgresRepo) ListActive(ctx context.Context) ([]Loan, error) {
	return r.queryLoans(ctx,
		`SELECT `+loanColumns+loanFrom+` WHERE NOT l.is_returned ORDER BY l.due_date`)
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, now time.Time) ([]Loan, error) {
	// Earliest-overdue first so the caller can prioritize.
	return r.queryLoans(ctx,
		`SELECT `+loanColumns+loanFrom+` WHERE NOT l.is_returned AND l.due_date < $1 ORDER BY l.due_date ASC`,
		now)
}

func (r *PostgresRepo) GetBookRef(ctx context.Context, bookID int64) (BookRef, error) {
	var ref BookRef
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT id, title, is_available FROM books WHERE id = $1`, bookID).
		Scan(&ref.ID, &ref.Title, &ref.IsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookRef{}, ErrBookNotFound
		}
		return BookRef{}, err
	}
	return ref, nil
}

func (r *PostgresRepo) GetEmployeeRef(ctx context.Context, employeeID int64) (EmployeeRef, error) {
	var ref EmployeeRef
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT id, first_name || ' ' || last_name FROM employees WHERE id = $1`, employeeID).
		Scan(&ref.ID, &ref.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmployeeRef{}, ErrEmployeeNotFound
		}
		return EmployeeRef{}, err
	}
	return ref, nil
}

func (r *PostgresRepo) CreateActive(ctx context.Context, l *Loan) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx) //nolint:errcheck // rollback after commit is a no-op

	// Conditional flip guards against two concurrent borrows passing the
	// availability check: only one transaction can see rows-affected = 1.
	tag, err := tx.Exec(timeoutCtx,
		`UPDATE books SET is_available = false WHERE id = $1 AND is_available = true`,
		l.BookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookUnavailable
	}

	err = tx.QueryRow(timeoutCtx,
		`INSERT INTO loans (book_id, employee_id, loan_date, due_date, is_returned, notes)
		 VALUES ($1, $2, now(), $3, false, $4)
		 RETURNING id, loan_date`,
		l.BookID, l.EmployeeID, l.DueDate, l.Notes,
	).Scan(&l.ID, &l.LoanDate)
	if err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) MarkReturned(ctx context.Context, id int64, returnDate time.Time, notes *string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx) //nolint:errcheck

	var bookID int64
	// Guarded on is_returned so a racing double return loses here.
	err = tx.QueryRow(timeoutCtx,
		`UPDATE loans
		 SET return_date = $2, is_returned = true, notes = COALESCE($3, notes)
		 WHERE id = $1 AND NOT is_returned
		 RETURNING book_id`,
		id, returnDate, notes,
	).Scan(&bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadyReturned
		}
		return err
	}

	if _, err := tx.Exec(timeoutCtx,
		`UPDATE books SET is_available = true WHERE id = $1`, bookID); err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}
