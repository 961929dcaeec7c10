package author

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, firstName, lastName string, biography *string) (Author, error) {
	a := Author{FirstName: firstName, LastName: lastName, Biography: biography}
	if err := s.repo.Create(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id int64, firstName, lastName string, biography *string) (Author, error) {
	a := Author{ID: id, FirstName: firstName, LastName: lastName, Biography: biography}
	if err := s.repo.Update(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
