package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_ISBN(t *testing.T) {
	type req struct {
		ISBN string `validate:"required,isbn_code"`
	}

	valid := []string{
		"9780135957059",
		"978-0-13-595705-9",
		"0306406152",
		"030640615X",
		"0 306 40615 2",
	}
	for _, isbn := range valid {
		assert.Empty(t, ValidateStruct(req{ISBN: isbn}), "expected %q to validate", isbn)
	}

	invalid := []string{
		"12345",
		"97801359570590",
		"978013595705X",
		"abcdefghij",
	}
	for _, isbn := range invalid {
		details := ValidateStruct(req{ISBN: isbn})
		require.Len(t, details, 1, "expected %q to fail", isbn)
		assert.Equal(t, "isbn", details[0].Field)
		assert.Equal(t, "must be a valid 10 or 13 digit ISBN", details[0].Message)
	}
}

func TestValidateStruct_Role(t *testing.T) {
	type req struct {
		Role string `validate:"library_role"`
	}

	for _, role := range []string{"", "Employee", "Librarian", "Admin"} {
		assert.Empty(t, ValidateStruct(req{Role: role}), "expected %q to validate", role)
	}

	details := ValidateStruct(req{Role: "Superuser"})
	require.Len(t, details, 1)
	assert.Equal(t, "must be one of Employee, Librarian, Admin", details[0].Message)
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	type req struct {
		Username string `validate:"required,min=3,max=50"`
		Email    string `validate:"required,email"`
	}

	details := ValidateStruct(req{Username: "ab", Email: "not-an-email"})
	require.Len(t, details, 2)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "must be at least 3", byField["username"])
	assert.Equal(t, "must be a valid email address", byField["email"])
}

func TestValidateStruct_Valid(t *testing.T) {
	type req struct {
		Name string `validate:"required,min=2"`
	}
	assert.Nil(t, ValidateStruct(req{Name: "ok"}))
}
