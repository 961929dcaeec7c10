package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corplibrary/internal/platform/crypto"
	"corplibrary/internal/user"
)

func newTestService(users user.Repository) *Service {
	return NewService(users, "test-secret", time.Hour, zerolog.Nop())
}

func activeUser(t *testing.T, password string) user.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return user.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@corplibrary.local",
		PasswordHash: hash,
		Role:         "Employee",
		IsActive:     true,
	}
}

func TestService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		u := activeUser(t, "secret123")
		mockUsers.EXPECT().GetByUsername(gomock.Any(), "alice").Return(u, nil)
		mockUsers.EXPECT().UpdateLastLogin(gomock.Any(), u.ID, gomock.Any()).Return(nil)

		session, err := service.Login(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, "Employee", session.Role)
		assert.True(t, session.ExpiresAt.After(time.Now()))

		claims, err := crypto.ParseToken("test-secret", session.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByUsername(gomock.Any(), "alice").Return(activeUser(t, "secret123"), nil)

		_, err := service.Login(context.Background(), "alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(user.User{}, user.ErrNotFound)

		_, err := service.Login(context.Background(), "nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		u := activeUser(t, "secret123")
		u.IsActive = false
		mockUsers.EXPECT().GetByUsername(gomock.Any(), "alice").Return(u, nil)

		_, err := service.Login(context.Background(), "alice", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("last login update failure does not block login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByUsername(gomock.Any(), "alice").Return(activeUser(t, "secret123"), nil)
		mockUsers.EXPECT().UpdateLastLogin(gomock.Any(), int64(1), gomock.Any()).
			Return(context.DeadlineExceeded)

		session, err := service.Login(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})
}

func TestService_Register(t *testing.T) {
	t.Run("defaults to the Employee role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, "Employee", u.Role)
				assert.True(t, u.IsActive)
				assert.NotEqual(t, "secret123", u.PasswordHash)
				u.ID = 5
				return nil
			})

		session, err := service.Register(context.Background(), RegisterInput{
			Username: "bob",
			Email:    "bob@corplibrary.local",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "bob", session.Username)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("rejects a weak password before hashing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		// No Create expectation: the repository must not be touched.
		_, err := service.Register(context.Background(), RegisterInput{
			Username: "bob",
			Email:    "bob@corplibrary.local",
			Password: "short",
		})
		assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)
	})

	t.Run("duplicate username", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(user.ErrUsernameTaken)

		_, err := service.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "alice2@corplibrary.local",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, user.ErrUsernameTaken)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByID(gomock.Any(), int64(1)).Return(activeUser(t, "old-secret"), nil)
		mockUsers.EXPECT().UpdatePassword(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, hash string) error {
				assert.True(t, crypto.VerifyPassword(hash, "new-secret"))
				return nil
			})

		err := service.ChangePassword(context.Background(), 1, "old-secret", "new-secret")
		assert.NoError(t, err)
	})

	t.Run("rejects a weak new password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByID(gomock.Any(), int64(1)).Return(activeUser(t, "old-secret"), nil)

		err := service.ChangePassword(context.Background(), 1, "old-secret", "tiny")
		assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)
	})

	t.Run("wrong old password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockUsers := user.NewMockRepository(ctrl)
		service := newTestService(mockUsers)

		mockUsers.EXPECT().GetByID(gomock.Any(), int64(1)).Return(activeUser(t, "old-secret"), nil)

		err := service.ChangePassword(context.Background(), 1, "not-the-old-one", "new-secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_HasAnyUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := user.NewMockRepository(ctrl)
	service := newTestService(mockUsers)

	mockUsers.EXPECT().Count(gomock.Any()).Return(0, nil)
	empty, err := service.HasAnyUsers(context.Background())
	require.NoError(t, err)
	assert.False(t, empty)

	mockUsers.EXPECT().Count(gomock.Any()).Return(3, nil)
	populated, err := service.HasAnyUsers(context.Background())
	require.NoError(t, err)
	assert.True(t, populated)
}
