package report

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dialectPostgres = "postgres"

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

func (r *PostgresRepo) countWhere(ctx context.Context, table string, where ...goqu.Expression) (int, error) {
	query, args, err := goqu.Dialect(dialectPostgres).
		From(table).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(&n)
	return n, err
}

func (r *PostgresRepo) Stats(ctx context.Context, now time.Time) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalBooks, err = r.countWhere(ctx, "books"); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalEmployees, err = r.countWhere(ctx, "employees"); err != nil {
		return DashboardStats{}, err
	}
	if stats.ActiveLoans, err = r.countWhere(ctx, "loans",
		goqu.C("return_date").IsNull()); err != nil {
		return DashboardStats{}, err
	}
	if stats.OverdueLoans, err = r.countWhere(ctx, "loans",
		goqu.C("return_date").IsNull(), goqu.C("due_date").Lt(now)); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func (r *PostgresRepo) BookRows(ctx context.Context) ([]BookRow, error) {
	query, args, err := goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("b.category_id")})).
		Select(
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.isbn"), goqu.I("b.publisher"),
			goqu.I("b.year"), goqu.I("c.name"), goqu.I("b.is_available"),
		).
		Order(goqu.I("b.title").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookRow
	index := make(map[int64]int)
	for rows.Next() {
		var row BookRow
		if err := rows.Scan(&row.ID, &row.Title, &row.ISBN, &row.Publisher, &row.Year, &row.Category, &row.IsAvailable); err != nil {
			return nil, err
		}
		index[row.ID] = len(out)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	authorQuery, authorArgs, err := goqu.Dialect(dialectPostgres).
		From(goqu.T("book_authors").As("ba")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("ba.author_id")})).
		Select(goqu.I("ba.book_id"), goqu.L("a.first_name || ' ' || a.last_name")).
		Order(goqu.I("a.last_name").Asc(), goqu.I("a.first_name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	authorCtx, cancelAuthors := r.withTimeout(ctx)
	defer cancelAuthors()
	authorRows, err := r.db.Query(authorCtx, authorQuery, authorArgs...)
	if err != nil {
		return nil, err
	}
	defer authorRows.Close()

	for authorRows.Next() {
		var bookID int64
		var name string
		if err := authorRows.Scan(&bookID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[bookID]; ok {
			out[i].Authors = append(out[i].Authors, name)
		}
	}
	return out, authorRows.Err()
}

func (r *PostgresRepo) LoanRows(ctx context.Context) ([]LoanRow, error) {
	query, args, err := goqu.Dialect(dialectPostgres).
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("l.book_id")})).
		Join(goqu.T("employees").As("e"), goqu.On(goqu.Ex{"e.id": goqu.I("l.employee_id")})).
		Select(
			goqu.I("l.id"), goqu.I("b.title"),
			goqu.L("e.first_name || ' ' || e.last_name"),
			goqu.I("l.loan_date"), goqu.I("l.due_date"), goqu.I("l.return_date"),
		).
		Order(goqu.I("l.loan_date").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoanRow
	for rows.Next() {
		var row LoanRow
		if err := rows.Scan(&row.ID, &row.BookTitle, &row.EmployeeName, &row.LoanDate, &row.DueDate, &row.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
