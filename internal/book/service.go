package book

import (
	"context"

	"github.com/rs/zerolog"
)

// Service provides book business logic.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	Title       string
	ISBN        string
	Publisher   string
	Year        int
	Pages       int
	Description string
	CategoryID  int64
	AuthorIDs   []int64
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	s.logger.Info().Str("title", in.Title).Str("isbn", in.ISBN).Msg("creating book")

	b := Book{
		Title:       in.Title,
		ISBN:        in.ISBN,
		Publisher:   in.Publisher,
		Year:        in.Year,
		Pages:       in.Pages,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.Create(ctx, &b, in.AuthorIDs); err != nil {
		s.logger.Warn().Err(err).Str("isbn", in.ISBN).Msg("book create failed")
		return Book{}, err
	}

	s.logger.Info().Int64("book_id", b.ID).Str("title", b.Title).Msg("book created")
	return s.repo.GetByID(ctx, b.ID)
}

func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (Book, error) {
	s.logger.Info().Int64("book_id", id).Msg("updating book")

	b := Book{
		ID:          id,
		Title:       in.Title,
		ISBN:        in.ISBN,
		Publisher:   in.Publisher,
		Year:        in.Year,
		Pages:       in.Pages,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.Update(ctx, &b, in.AuthorIDs); err != nil {
		s.logger.Warn().Err(err).Int64("book_id", id).Msg("book update failed")
		return Book{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info().Int64("book_id", id).Msg("deleting book")
	return s.repo.Delete(ctx, id)
}

// DeleteBatch removes the given books and reports how many rows went away.
func (s *Service) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	s.logger.Info().Int("count", len(ids)).Msg("bulk deleting books")
	return s.repo.DeleteBatch(ctx, ids)
}
