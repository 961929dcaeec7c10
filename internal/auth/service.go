package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"corplibrary/internal/platform/crypto"
	"corplibrary/internal/user"
)

var (
	// ErrInvalidCredentials covers unknown username, wrong password and
	// inactive accounts alike, so the response leaks nothing.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	users    user.Repository
	secret   string
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(users user.Repository, secret string, tokenTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Session is what a successful login or registration hands back.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	s.logger.Info().Str("username", username).Msg("login attempt")

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn().Str("username", username).Msg("login failed: unknown user")
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !u.IsActive {
		s.logger.Warn().Str("username", username).Msg("login failed: inactive account")
		return Session{}, ErrInvalidCredentials
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("login failed: bad password")
		return Session{}, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID, s.now()); err != nil {
		// Login still succeeds; the timestamp is best-effort.
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("could not update last login")
	}

	return s.issueSession(u)
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Role       string
	EmployeeID *int64
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	s.logger.Info().Str("username", in.Username).Str("role", in.Role).Msg("registering user")

	// The service enforces the minimum itself so non-HTTP callers (seed
	// tooling) cannot create weak accounts.
	if err := crypto.ValidatePasswordStrength(in.Password); err != nil {
		return Session{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	role := in.Role
	if role == "" {
		role = "Employee"
	}

	u := user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		EmployeeID:   in.EmployeeID,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		s.logger.Warn().Err(err).Str("username", in.Username).Msg("registration failed")
		return Session{}, err
	}

	s.logger.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	return s.issueSession(u)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.VerifyPassword(u.PasswordHash, oldPassword) {
		s.logger.Warn().Int64("user_id", userID).Msg("password change rejected: bad old password")
		return ErrInvalidCredentials
	}
	if err := crypto.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}

// HasAnyUsers reports whether the bootstrap registration path is closed.
func (s *Service) HasAnyUsers(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	return n > 0, err
}

func (s *Service) issueSession(u user.User) (Session, error) {
	token, expiresAt, err := crypto.GenerateToken(s.secret, u.ID, u.Username, u.Role, u.EmployeeID, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: expiresAt,
	}, nil
}
