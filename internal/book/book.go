package book

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("book not found")
	ErrISBNTaken        = errors.New("isbn already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrInUse            = errors.New("book has loan history")
)

type Book struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	ISBN         string      `json:"isbn"`
	Publisher    string      `json:"publisher"`
	Year         int         `json:"year"`
	Pages        int         `json:"pages"`
	Description  string      `json:"description"`
	IsAvailable  bool        `json:"isAvailable"`
	CategoryID   int64       `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
	Authors      []AuthorRef `json:"authors"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

// AuthorRef is the author projection embedded in book responses.
type AuthorRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book, authorIDs []int64) error
	Update(ctx context.Context, b *Book, authorIDs []int64) error
	Delete(ctx context.Context, id int64) error
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)
}
