package employee

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("employee not found")
	ErrEmailTaken = errors.New("employee email already exists")
	ErrInUse      = errors.New("employee still has loans or a user account")
)

type Employee struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type view struct {
	Employee
	FullName string `json:"fullName"`
}

func (e Employee) View() any {
	return view{Employee: e, FullName: e.FullName()}
}

func Views(employees []Employee) []any {
	out := make([]any, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.View())
	}
	return out
}

type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int64) error
}
