package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

func TestLoanRow_Status(t *testing.T) {
	returned := testNow.Add(-24 * time.Hour)

	tests := []struct {
		name string
		row  LoanRow
		want string
	}{
		{"returned", LoanRow{DueDate: testNow.Add(-48 * time.Hour), ReturnDate: &returned}, "Returned"},
		{"overdue", LoanRow{DueDate: testNow.Add(-time.Hour)}, "Overdue"},
		{"borrowed", LoanRow{DueDate: testNow.Add(72 * time.Hour)}, "Borrowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.Status(testNow))
		})
	}
}

func TestBooksCSV(t *testing.T) {
	rows := []BookRow{
		{
			ID: 1, Title: "Clean Code", ISBN: "9780132350884", Publisher: "Prentice Hall",
			Year: 2008, Category: "Technology", Authors: []string{"Robert Martin"}, IsAvailable: true,
		},
		{
			ID: 2, Title: "The Guns of August", ISBN: "9780345386236", Publisher: "Ballantine",
			Year: 1962, Category: "History", Authors: []string{"Barbara Tuchman"}, IsAvailable: false,
		},
	}

	data, err := booksCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Id", "Title", "ISBN", "Publisher", "Year", "Category", "Authors", "Available"}, records[0])
	assert.Equal(t, "Clean Code", records[1][1])
	assert.Equal(t, "Yes", records[1][7])
	assert.Equal(t, "No", records[2][7])
}

func TestLoansCSV(t *testing.T) {
	returned := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	rows := []LoanRow{
		{
			ID: 1, BookTitle: "Clean Code", EmployeeName: "Alice Nguyen",
			LoanDate:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
			ReturnDate: &returned,
		},
		{
			ID: 2, BookTitle: "The Guns of August", EmployeeName: "Bob Martins",
			LoanDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			DueDate:  time.Date(2025, 7, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := loansCSV(rows, testNow)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Returned", records[1][6])
	assert.Equal(t, "2025-07-05", records[1][5])
	assert.Equal(t, "Overdue", records[2][6])
	assert.Equal(t, "", records[2][5])
}

func TestBooksPDF(t *testing.T) {
	rows := []BookRow{
		{ID: 1, Title: "Clean Code", ISBN: "9780132350884", Year: 2008, Category: "Technology", IsAvailable: true},
	}

	data, err := booksPDF(rows, testNow)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "expected a PDF document")
}

func TestLoansPDF_EmptyStillRenders(t *testing.T) {
	data, err := loansPDF(nil, testNow)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long title indeed", 10))
}
