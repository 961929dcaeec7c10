package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.role, u.is_active,
	u.employee_id, e.first_name || ' ' || e.last_name,
	u.created_at, u.last_login_at`

const userFrom = `
	FROM users u
	LEFT JOIN employees e ON e.id = u.employee_id`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.EmployeeID, &u.EmployeeName, &u.CreatedAt, &u.LastLoginAt,
	)
	return u, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT `+userColumns+userFrom+` ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	u, err := scanUser(r.db.QueryRow(timeoutCtx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	u, err := scanUser(r.db.QueryRow(timeoutCtx,
		`SELECT `+userColumns+userFrom+` WHERE lower(u.username) = lower($1)`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO users (username, email, password_hash, role, is_active, employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		u.Username, u.Email, u.PasswordHash, u.Role, u.IsActive, u.EmployeeID,
	).Scan(&u.ID, &u.CreatedAt)
	return mapConstraintErr(err)
}

func (r *PostgresRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		if strings.Contains(pgErr.ConstraintName, "username") {
			return ErrUsernameTaken
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrEmailTaken
		}
	case "23503":
		if strings.Contains(pgErr.ConstraintName, "employee") {
			return ErrEmployeeNotFound
		}
	}
	return err
}
