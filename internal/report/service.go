package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	return s.repo.Stats(ctx, s.now())
}

// ExportBooksCSV renders the full catalog as a CSV document.
func (s *Service) ExportBooksCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.BookRows(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("rows", len(rows)).Msg("exporting books csv")
	return booksCSV(rows)
}

// ExportLoansCSV renders the loan history as a CSV document.
func (s *Service) ExportLoansCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.LoanRows(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("rows", len(rows)).Msg("exporting loans csv")
	return loansCSV(rows, s.now())
}

// ExportBooksPDF renders the full catalog as a PDF document.
func (s *Service) ExportBooksPDF(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.BookRows(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("rows", len(rows)).Msg("exporting books pdf")
	return booksPDF(rows, s.now())
}

// ExportLoansPDF renders the loan history as a PDF document.
func (s *Service) ExportLoansPDF(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.LoanRows(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("rows", len(rows)).Msg("exporting loans pdf")
	return loansPDF(rows, s.now())
}
