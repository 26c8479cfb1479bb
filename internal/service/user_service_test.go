package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelow/recite-api/internal/config"
	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/service/auth"
	"github.com/avelow/recite-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) delete(id uuid.UUID) {
	if user, ok := s.byID[id]; ok {
		delete(s.byEmail, user.Email)
		delete(s.byID, id)
	}
}

func newTestUserService(t *testing.T, users store.UserStore) *UserService {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-long-enough-for-hmac",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(4) // Minimum cost keeps the tests fast.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(users, hasher, hasher, jwtService, log)
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestUserService(t, users)

	user, tokens, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	assert.Equal(t, "learner@example.com", user.Email)
	assert.Empty(t, user.Password, "plaintext is cleared after hashing")
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "a-long-enough-password", user.HashedPassword)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	stored, err := users.GetByEmail(context.Background(), "learner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	_, _, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "learner@example.com", "another-long-password")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceRegisterInvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	_, _, err := svc.Register(context.Background(), "not-an-email", "a-long-enough-password")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, _, err = svc.Register(context.Background(), "learner@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestUserServiceLogin(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	registered, _, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	user, tokens, err := svc.Login(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestUserServiceLoginBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	_, _, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	// Unknown email and wrong password fail identically.
	_, _, err = svc.Login(context.Background(), "stranger@example.com", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "learner@example.com", "the-wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceRefresh(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	_, tokens, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestUserServiceRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(t, newFakeUserStore())

	_, tokens, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestUserServiceRefreshDeletedAccount(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestUserService(t, users)

	user, tokens, err := svc.Register(context.Background(), "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	users.delete(user.ID)

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
