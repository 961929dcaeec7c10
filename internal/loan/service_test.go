package loan

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo Repository) *Service {
	return NewService(repo, zerolog.Nop())
}

func TestService_Create(t *testing.T) {
	dueDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetBookRef(gomock.Any(), int64(1)).
			Return(BookRef{ID: 1, Title: "Clean Code", IsAvailable: true}, nil)
		mockRepo.EXPECT().GetEmployeeRef(gomock.Any(), int64(7)).
			Return(EmployeeRef{ID: 7, FullName: "Alice Nguyen"}, nil)
		mockRepo.EXPECT().CreateActive(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l *Loan) error {
				l.ID = 42
				l.LoanDate = time.Now()
				return nil
			})
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42, BookID: 1, EmployeeID: 7, DueDate: dueDate}, nil)

		l, err := service.Create(context.Background(), CreateInput{
			BookID:     1,
			EmployeeID: 7,
			DueDate:    dueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), l.ID)
		assert.False(t, l.IsReturned)
	})

	t.Run("book not available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetBookRef(gomock.Any(), int64(1)).
			Return(BookRef{ID: 1, Title: "Clean Code", IsAvailable: false}, nil)

		_, err := service.Create(context.Background(), CreateInput{
			BookID: 1, EmployeeID: 7, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, ErrBookUnavailable)
	})

	t.Run("book does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetBookRef(gomock.Any(), int64(99)).
			Return(BookRef{}, ErrBookNotFound)

		_, err := service.Create(context.Background(), CreateInput{
			BookID: 99, EmployeeID: 7, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("employee does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetBookRef(gomock.Any(), int64(1)).
			Return(BookRef{ID: 1, IsAvailable: true}, nil)
		mockRepo.EXPECT().GetEmployeeRef(gomock.Any(), int64(99)).
			Return(EmployeeRef{}, ErrEmployeeNotFound)

		_, err := service.Create(context.Background(), CreateInput{
			BookID: 1, EmployeeID: 99, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("lost the race for the last copy", func(t *testing.T) {
		// The availability check passed but another request flipped the
		// flag first; the conditional update inside CreateActive reports
		// the conflict.
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetBookRef(gomock.Any(), int64(1)).
			Return(BookRef{ID: 1, IsAvailable: true}, nil)
		mockRepo.EXPECT().GetEmployeeRef(gomock.Any(), int64(7)).
			Return(EmployeeRef{ID: 7}, nil)
		mockRepo.EXPECT().CreateActive(gomock.Any(), gomock.Any()).
			Return(ErrBookUnavailable)

		_, err := service.Create(context.Background(), CreateInput{
			BookID: 1, EmployeeID: 7, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, ErrBookUnavailable)
	})
}

func TestService_Return(t *testing.T) {
	fixedNow := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

	t.Run("success with explicit return date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		returnDate := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42, BookID: 1, BookTitle: "Clean Code"}, nil)
		mockRepo.EXPECT().MarkReturned(gomock.Any(), int64(42), returnDate, gomock.Nil()).
			Return(nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42, IsReturned: true, ReturnDate: &returnDate}, nil)

		l, err := service.Return(context.Background(), 42, ReturnInput{ReturnDate: &returnDate})
		require.NoError(t, err)
		assert.True(t, l.IsReturned)
		require.NotNil(t, l.ReturnDate)
		assert.Equal(t, returnDate, *l.ReturnDate)
	})

	t.Run("return date defaults to now", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42}, nil)
		mockRepo.EXPECT().MarkReturned(gomock.Any(), int64(42), fixedNow, gomock.Nil()).
			Return(nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42, IsReturned: true, ReturnDate: &fixedNow}, nil)

		_, err := service.Return(context.Background(), 42, ReturnInput{})
		assert.NoError(t, err)
	})

	t.Run("already returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42, IsReturned: true}, nil)

		_, err := service.Return(context.Background(), 42, ReturnInput{})
		assert.ErrorIs(t, err, ErrAlreadyReturned)
	})

	t.Run("unknown loan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(99)).
			Return(Loan{}, ErrNotFound)

		_, err := service.Return(context.Background(), 99, ReturnInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent return loses", func(t *testing.T) {
		// The snapshot looked active but another request returned the
		// loan first; the conditional update surfaces the conflict.
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		service := newTestService(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(Loan{ID: 42}, nil)
		mockRepo.EXPECT().MarkReturned(gomock.Any(), int64(42), gomock.Any(), gomock.Nil()).
			Return(ErrAlreadyReturned)

		_, err := service.Return(context.Background(), 42, ReturnInput{})
		assert.ErrorIs(t, err, ErrAlreadyReturned)
	})
}

func TestService_ListOverdue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := newTestService(mockRepo)

	fixedNow := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	overdue := []Loan{
		{ID: 1, DueDate: fixedNow.Add(-72 * time.Hour)},
		{ID: 2, DueDate: fixedNow.Add(-24 * time.Hour)},
	}
	mockRepo.EXPECT().ListOverdue(gomock.Any(), fixedNow).Return(overdue, nil)

	loans, err := service.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 2)
	// Earliest due date first.
	assert.True(t, loans[0].DueDate.Before(loans[1].DueDate))
}
