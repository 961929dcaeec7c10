package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already exists")
	ErrEmployeeNotFound = errors.New("employee not found")
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"` // Employee, Librarian, Admin
	IsActive     bool       `json:"isActive"`
	EmployeeID   *int64     `json:"employeeId,omitempty"`
	EmployeeName *string    `json:"employeeName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (User, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
