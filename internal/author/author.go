package author

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("author not found")
	ErrInUse    = errors.New("author still has books")
)

type Author struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Biography *string `json:"biography,omitempty"`
}

func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// view is the JSON shape with the derived full name included.
type view struct {
	Author
	FullName string `json:"fullName"`
}

func (a Author) View() any {
	return view{Author: a, FullName: a.FullName()}
}

func Views(authors []Author) []any {
	out := make([]any, 0, len(authors))
	for _, a := range authors {
		out = append(out, a.View())
	}
	return out
}

type Repository interface {
	List(ctx context.Context) ([]Author, error)
	GetByID(ctx context.Context, id int64) (Author, error)
	Create(ctx context.Context, a *Author) error
	Update(ctx context.Context, a *Author) error
	Delete(ctx context.Context, id int64) error
}
