package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelow/recite-api/internal/domain"
)

func makeSession(t *testing.T, itemCount int) *domain.Session {
	t.Helper()

	items := make([]domain.SessionItem, itemCount)
	for i := range items {
		items[i] = domain.SessionItem{ExerciseID: uuid.New(), Category: domain.ItemCategoryReview}
	}

	s, err := domain.NewSession(uuid.New(), items)
	require.NoError(t, err)
	return s
}

func TestAdvanceMovesCursor(t *testing.T) {
	t.Parallel()

	s := makeSession(t, 3)

	next := Advance(s)
	assert.Equal(t, 1, next.CurrentIndex)
	assert.Equal(t, domain.SessionStatusActive, next.Status)

	// The input is never mutated.
	assert.Equal(t, 0, s.CurrentIndex)
}

func TestAdvanceCompletesOnLastItem(t *testing.T) {
	t.Parallel()

	s := makeSession(t, 2)
	s.CurrentIndex = 1

	next := Advance(s)
	assert.Equal(t, 2, next.CurrentIndex)
	assert.Equal(t, domain.SessionStatusComplete, next.Status)
}

func TestAdvanceIsIdempotentWhenComplete(t *testing.T) {
	t.Parallel()

	s := makeSession(t, 2)
	s.CurrentIndex = 2
	s.Status = domain.SessionStatusComplete

	// Client retries of the final advance must not error or move state.
	next := Advance(s)
	assert.Equal(t, 2, next.CurrentIndex)
	assert.Equal(t, domain.SessionStatusComplete, next.Status)
	assert.Equal(t, s.UpdatedAt, next.UpdatedAt, "a no-op advance does not touch the timestamp")
}

func TestAdvanceEmptySession(t *testing.T) {
	t.Parallel()

	// An empty session is complete at creation; advancing stays put.
	s := makeSession(t, 0)
	assert.Equal(t, domain.SessionStatusComplete, s.Status)

	next := Advance(s)
	assert.Equal(t, 0, next.CurrentIndex)
	assert.Equal(t, domain.SessionStatusComplete, next.Status)
}

func TestAdvanceClampsOutOfRangeCursor(t *testing.T) {
	t.Parallel()

	// A corrupted record with the cursor past the items cannot advance
	// further; it clamps and completes.
	s := makeSession(t, 2)
	s.CurrentIndex = 7

	next := Advance(s)
	assert.Equal(t, 2, next.CurrentIndex)
	assert.Equal(t, domain.SessionStatusComplete, next.Status)
}

func TestAdvanceWalksWholeSession(t *testing.T) {
	t.Parallel()

	s := makeSession(t, 4)
	for i := 1; i <= 4; i++ {
		s = Advance(s)
		assert.Equal(t, i, s.CurrentIndex)
	}
	assert.Equal(t, domain.SessionStatusComplete, s.Status)

	// One more advance is a no-op.
	s = Advance(s)
	assert.Equal(t, 4, s.CurrentIndex)
	assert.Equal(t, domain.SessionStatusComplete, s.Status)
}
