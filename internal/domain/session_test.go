package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems(n int) []SessionItem {
	items := make([]SessionItem, n)
	for i := range items {
		items[i] = SessionItem{ExerciseID: uuid.New(), Category: ItemCategoryReview}
	}
	return items
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	items := validItems(3)

	s, err := NewSession(userID, items)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, items, s.Items)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, SessionStatusActive, s.Status)
}

func TestNewSessionEmptyPlanIsComplete(t *testing.T) {
	t.Parallel()

	s, err := NewSession(uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusComplete, s.Status)
}

func TestNewSessionRequiresUser(t *testing.T) {
	t.Parallel()

	_, err := NewSession(uuid.Nil, validItems(1))
	assert.ErrorIs(t, err, ErrSessionUserIDEmpty)
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Session)
		wantErr error
	}{
		{
			name:    "cursor below zero",
			mutate:  func(s *Session) { s.CurrentIndex = -1 },
			wantErr: ErrSessionCursorRange,
		},
		{
			name:    "cursor past the item count",
			mutate:  func(s *Session) { s.CurrentIndex = 4 },
			wantErr: ErrSessionCursorRange,
		},
		{
			name:    "unknown status",
			mutate:  func(s *Session) { s.Status = "paused" },
			wantErr: ErrSessionStatusInvalid,
		},
		{
			name:    "item without exercise",
			mutate:  func(s *Session) { s.Items[1].ExerciseID = uuid.Nil },
			wantErr: ErrSessionItemInvalid,
		},
		{
			name:    "item with unknown category",
			mutate:  func(s *Session) { s.Items[1].Category = "bonus" },
			wantErr: ErrSessionItemInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewSession(uuid.New(), validItems(3))
			require.NoError(t, err)

			tc.mutate(s)
			assert.ErrorIs(t, s.Validate(), tc.wantErr)
		})
	}
}

func TestSessionCursorAtItemCountIsValid(t *testing.T) {
	t.Parallel()

	// The cursor equals the item count exactly when every item is answered.
	s, err := NewSession(uuid.New(), validItems(2))
	require.NoError(t, err)

	s.CurrentIndex = 2
	s.Status = SessionStatusComplete
	assert.NoError(t, s.Validate())
}

func TestSessionCurrentItem(t *testing.T) {
	t.Parallel()

	items := validItems(2)
	s, err := NewSession(uuid.New(), items)
	require.NoError(t, err)

	item, ok := s.CurrentItem()
	assert.True(t, ok)
	assert.Equal(t, items[0], item)

	s.CurrentIndex = 1
	item, ok = s.CurrentItem()
	assert.True(t, ok)
	assert.Equal(t, items[1], item)

	s.CurrentIndex = 2
	_, ok = s.CurrentItem()
	assert.False(t, ok)
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("learner@example.com", "a-long-enough-password")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "learner@example.com", user.Email)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "a-long-enough-password", ErrEmptyEmail},
		{"malformed email", "not-an-email", "a-long-enough-password", ErrInvalidEmail},
		{"short password", "learner@example.com", "short", ErrPasswordTooShort},
		{"password past bcrypt limit", "learner@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
		{"empty password", "learner@example.com", "", ErrEmptyPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserFromStorageNeedsOnlyHash(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             uuid.New(),
		Email:          "learner@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())
}
