package category

import (
	"context"
)

// Service provides category business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, name, description string) (Category, error) {
	c := Category{Name: name, Description: description}
	if err := s.repo.Create(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, name, description string) (Category, error) {
	c := Category{ID: id, Name: name, Description: description}
	if err := s.repo.Update(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
