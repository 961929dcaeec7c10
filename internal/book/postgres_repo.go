package book

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

const bookColumns = `
	b.id, b.title, b.isbn, b.publisher, b.year, b.pages, b.description,
	b.is_available, b.category_id, c.name, b.created_at, b.updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Publisher, &b.Year, &b.Pages, &b.Description,
		&b.IsAvailable, &b.CategoryID, &b.CategoryName, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN categories c ON c.id = b.category_id
		ORDER BY b.title`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	index := make(map[int64]int)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		b.Authors = []AuthorRef{}
		index[b.ID] = len(books)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return books, nil
	}

	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	authorsByBook, err := r.authorsForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for bookID, authors := range authorsByBook {
		books[index[bookID]].Authors = authors
	}
	return books, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	authorsByBook, err := r.authorsForBooks(ctx, []int64{id})
	if err != nil {
		return Book{}, err
	}
	b.Authors = authorsByBook[id]
	if b.Authors == nil {
		b.Authors = []AuthorRef{}
	}
	return b, nil
}

func (r *PostgresRepo) authorsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]AuthorRef, error) {
	const query = `
		SELECT ba.book_id, a.id, a.first_name, a.last_name
		FROM book_authors ba
		JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.last_name, a.first_name`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, bookIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]AuthorRef)
	for rows.Next() {
		var bookID int64
		var a AuthorRef
		if err := rows.Scan(&bookID, &a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		a.FullName = a.FirstName + " " + a.LastName
		out[bookID] = append(out[bookID], a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book, authorIDs []int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx) //nolint:errcheck // rollback after commit is a no-op

	const insertBook = `
		INSERT INTO books (title, isbn, publisher, year, pages, description, is_available, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, now())
		RETURNING id, is_available, created_at`

	err = tx.QueryRow(timeoutCtx, insertBook,
		b.Title, b.ISBN, b.Publisher, b.Year, b.Pages, b.Description, b.CategoryID,
	).Scan(&b.ID, &b.IsAvailable, &b.CreatedAt)
	if err != nil {
		return mapConstraintErr(err)
	}

	for _, authorID := range authorIDs {
		if _, err := tx.Exec(timeoutCtx,
			`INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)`,
			b.ID, authorID,
		); err != nil {
			return mapConstraintErr(err)
		}
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book, authorIDs []int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx) //nolint:errcheck

	const updateBook = `
		UPDATE books
		SET title = $2, isbn = $3, publisher = $4, year = $5, pages = $6,
		    description = $7, category_id = $8, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(timeoutCtx, updateBook,
		b.ID, b.Title, b.ISBN, b.Publisher, b.Year, b.Pages, b.Description, b.CategoryID)
	if err != nil {
		return mapConstraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Reconcile the author set: drop the ones no longer listed, add the rest.
	if _, err := tx.Exec(timeoutCtx,
		`DELETE FROM book_authors WHERE book_id = $1 AND NOT (author_id = ANY($2))`,
		b.ID, authorIDs,
	); err != nil {
		return err
	}
	for _, authorID := range authorIDs {
		if _, err := tx.Exec(timeoutCtx,
			`INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)
			 ON CONFLICT (book_id, author_id) DO NOTHING`,
			b.ID, authorID,
		); err != nil {
			return mapConstraintErr(err)
		}
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if isLoanReference(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = ANY($1)`, ids)
	if isLoanReference(err) {
		return 0, ErrInUse
	}
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// isLoanReference reports whether a delete hit the loans foreign key.
// book_authors rows cascade, so any other 23503 here comes from loans.
func isLoanReference(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		if strings.Contains(pgErr.ConstraintName, "isbn") {
			return ErrISBNTaken
		}
	case "23503":
		if strings.Contains(pgErr.ConstraintName, "category") {
			return ErrCategoryNotFound
		}
		if strings.Contains(pgErr.ConstraintName, "author") {
			return ErrAuthorNotFound
		}
	}
	return err
}
