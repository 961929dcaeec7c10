package loan

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service owns the loan lifecycle: Active on create, a single transition
// to Returned, nothing after that.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

type CreateInput struct {
	BookID     int64
	EmployeeID int64
	DueDate    time.Time
	Notes      *string
}

type ReturnInput struct {
	ReturnDate *time.Time
	Notes      *string
}

// Create verifies both references, then atomically inserts the loan and
// flips the book to unavailable.
func (s *Service) Create(ctx context.Context, in CreateInput) (Loan, error) {
	s.logger.Info().
		Int64("book_id", in.BookID).
		Int64("employee_id", in.EmployeeID).
		Msg("starting loan creation")

	book, err := s.repo.GetBookRef(ctx, in.BookID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("book_id", in.BookID).Msg("loan verification failed")
		return Loan{}, err
	}
	if !book.IsAvailable {
		s.logger.Warn().
			Int64("book_id", book.ID).
			Str("title", book.Title).
			Msg("loan rejected: book not available")
		return Loan{}, ErrBookUnavailable
	}

	employee, err := s.repo.GetEmployeeRef(ctx, in.EmployeeID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("employee_id", in.EmployeeID).Msg("loan verification failed")
		return Loan{}, err
	}

	l := Loan{
		BookID:     in.BookID,
		EmployeeID: in.EmployeeID,
		DueDate:    in.DueDate,
		Notes:      in.Notes,
	}
	if err := s.repo.CreateActive(ctx, &l); err != nil {
		s.logger.Warn().Err(err).Int64("book_id", in.BookID).Msg("loan creation failed")
		return Loan{}, err
	}

	s.logger.Info().
		Int64("loan_id", l.ID).
		Str("title", book.Title).
		Str("employee", employee.FullName).
		Time("due_date", l.DueDate).
		Msg("loan created")

	return s.repo.GetByID(ctx, l.ID)
}

// Return records the return date and makes the book available again.
// A missing loan is ErrNotFound; a second return is ErrAlreadyReturned.
func (s *Service) Return(ctx context.Context, id int64, in ReturnInput) (Loan, error) {
	s.logger.Info().Int64("loan_id", id).Msg("starting loan return")

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Loan{}, err
	}
	if current.IsReturned {
		s.logger.Warn().
			Int64("loan_id", id).
			Str("title", current.BookTitle).
			Msg("return rejected: loan already returned")
		return Loan{}, ErrAlreadyReturned
	}

	returnDate := s.now()
	if in.ReturnDate != nil {
		returnDate = *in.ReturnDate
	}

	if err := s.repo.MarkReturned(ctx, id, returnDate, in.Notes); err != nil {
		return Loan{}, err
	}

	s.logger.Info().
		Int64("loan_id", id).
		Str("title", current.BookTitle).
		Time("return_date", returnDate).
		Msg("loan returned, book available again")

	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Loan, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Loan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]Loan, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

func (s *Service) ListActive(ctx context.Context) ([]Loan, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListOverdue(ctx context.Context) ([]Loan, error) {
	return s.repo.ListOverdue(ctx, s.now())
}
