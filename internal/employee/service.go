package employee

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	FirstName  string
	LastName   string
	Email      string
	Department string
	Position   string
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Employee, error) {
	e := Employee{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Employee, error) {
	e := Employee{
		ID:         id,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
	}
	if err := s.repo.Update(ctx, &e); err != nil {
		return Employee{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
