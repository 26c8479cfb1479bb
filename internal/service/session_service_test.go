package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/domain/srs"
	"github.com/avelow/recite-api/internal/grading"
	"github.com/avelow/recite-api/internal/store"
)

// fakeTxRunner runs the function with a nil transaction handle; the in-memory
// fakes' WithTx implementations ignore it.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

// fakeSessionStore is an in-memory store.SessionStore.
type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.Session

	// lockHook runs when a session row is locked for update, before the
	// locked copy is returned. Tests use it to model a writer that slipped
	// in between the pre-grading read and the lock.
	lockHook func()
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

func copySession(s *domain.Session) *domain.Session {
	copied := *s
	copied.Items = append([]domain.SessionItem(nil), s.Items...)
	return &copied
}

func (s *fakeSessionStore) Create(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *fakeSessionStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if s.lockHook != nil {
		s.lockHook()
	}
	return s.GetByID(ctx, id)
}

func (s *fakeSessionStore) Update(_ context.Context, session *domain.Session) error {
	if _, ok := s.sessions[session.ID]; !ok {
		return store.ErrSessionNotFound
	}
	if err := session.Validate(); err != nil {
		return err
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

func (s *fakeSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return s }

// stubJudge grades every answer CORRECT.
type stubJudge struct{}

func (stubJudge) Grade(context.Context, grading.Request) (*domain.GradingOutcome, error) {
	return &domain.GradingOutcome{
		Status:   domain.GradingStatusCorrect,
		Feedback: "Good translation.",
	}, nil
}

// sessionFixture bundles a SessionService with its in-memory collaborators.
type sessionFixture struct {
	svc       *SessionService
	sessions  *fakeSessionStore
	cards     *fakeCardStore
	exercises *fakeExerciseStore
	progress  *fakeProgressStore
}

func newSessionFixture() *sessionFixture {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &sessionFixture{
		sessions:  newFakeSessionStore(),
		cards:     newFakeCardStore(),
		exercises: newFakeExerciseStore(),
		progress:  newFakeProgressStore(),
	}

	pipeline := grading.NewPipeline(
		stubJudge{},
		grading.NewCircuitBreaker(0, 0, nil),
		log,
		grading.Config{},
	)

	f.svc = NewSessionService(
		fakeTxRunner{},
		f.sessions,
		f.cards,
		f.exercises,
		f.progress,
		pipeline,
		srs.NewDefaultService(),
		log,
	)
	return f
}

// addSession stores an active session over freshly created exercises.
func (f *sessionFixture) addSession(t *testing.T, userID uuid.UUID, itemCount int) *domain.Session {
	t.Helper()

	items := make([]domain.SessionItem, itemCount)
	for i := range items {
		exercise := addExercise(t, f.exercises)
		items[i] = domain.SessionItem{ExerciseID: exercise.ID, Category: domain.ItemCategoryReview}
	}

	sess, err := domain.NewSession(userID, items)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(context.Background(), sess))
	return sess
}

func TestSessionServiceStartSessionFirstContact(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	fresh := addExercise(t, f.exercises)
	f.exercises.unseen = []*domain.Exercise{fresh}

	sess, err := f.svc.StartSession(context.Background(), userID, 300, now)
	require.NoError(t, err)

	// With no cards yet the only candidate pool is the unseen one.
	require.Len(t, sess.Items, 1)
	assert.Equal(t, fresh.ID, sess.Items[0].ExerciseID)
	assert.Equal(t, domain.ItemCategoryNew, sess.Items[0].Category)
	assert.Equal(t, domain.SessionStatusActive, sess.Status)

	stored, err := f.sessions.GetByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, stored.ID)

	// First contact creates the progress record carrying the offset.
	progress, err := f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 300, progress.TZOffsetMinutes)
	assert.Equal(t, 0, progress.DaysActive)
}

func TestSessionServiceStartSessionRefreshesTimezone(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	require.NoError(t, f.progress.Upsert(context.Background(), &domain.UserProgress{
		UserID:          userID,
		DaysActive:      20,
		TZOffsetMinutes: 300,
	}))

	// The learner flew from New York to Berlin; the stored offset follows.
	_, err := f.svc.StartSession(context.Background(), userID, -120, now)
	require.NoError(t, err)

	progress, err := f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, -120, progress.TZOffsetMinutes)
	assert.Equal(t, 20, progress.DaysActive)
}

func TestSessionServiceStartSessionEmptyPoolsCompletes(t *testing.T) {
	t.Parallel()

	f := newSessionFixture()

	sess, err := f.svc.StartSession(context.Background(), uuid.New(), 0, time.Now())
	require.NoError(t, err)

	// Nothing to study is not an error; the session is born complete.
	assert.Empty(t, sess.Items)
	assert.Equal(t, domain.SessionStatusComplete, sess.Status)
}

func TestSessionServiceGetSessionOwnership(t *testing.T) {
	t.Parallel()

	f := newSessionFixture()
	sess := f.addSession(t, uuid.New(), 1)

	// A different learner asking for the session must not learn it exists.
	_, err := f.svc.GetSession(context.Background(), uuid.New(), sess.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.GetSession(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionServiceSubmitAnswerAdvances(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	sess := f.addSession(t, userID, 2)
	exerciseID := sess.Items[0].ExerciseID

	result, err := f.svc.SubmitAnswer(context.Background(), userID, sess.ID, -1, "hello", now)
	require.NoError(t, err)

	assert.Equal(t, domain.GradingStatusCorrect, result.Outcome.Status)
	assert.Equal(t, 1, result.Session.CurrentIndex)
	assert.Equal(t, domain.SessionStatusActive, result.Session.Status)
	assert.False(t, result.StreakIncremented, "an unfinished session never touches the streak")

	card, err := f.cards.Get(context.Background(), userID, exerciseID)
	require.NoError(t, err)
	assert.Equal(t, 1, card.Reps)

	stored, err := f.sessions.GetByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentIndex)
}

func TestSessionServiceSubmitAnswerStaleIndexConflict(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	sess := f.addSession(t, userID, 2)

	// The client believes it is answering item 1 while the cursor still
	// points at item 0. Nothing may be graded or written.
	_, err := f.svc.SubmitAnswer(context.Background(), userID, sess.ID, 1, "hello", now)
	assert.ErrorIs(t, err, ErrSessionConflict)

	assert.Empty(t, f.cards.cards)
	stored, err := f.sessions.GetByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentIndex)
}

func TestSessionServiceSubmitAnswerConcurrentAdvanceConflict(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	sess := f.addSession(t, userID, 3)

	// Another request commits an advance between the pre-grading read and
	// the row lock. The locked re-check must reject this submission with
	// nothing written.
	f.sessions.lockHook = func() {
		f.sessions.sessions[sess.ID].CurrentIndex = 1
	}

	_, err := f.svc.SubmitAnswer(context.Background(), userID, sess.ID, -1, "hello", now)
	assert.ErrorIs(t, err, ErrSessionConflict)
	assert.Empty(t, f.cards.cards)
}

func TestSessionServiceSubmitAnswerCompleteSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	sess := f.addSession(t, userID, 1)
	sess.CurrentIndex = 1
	sess.Status = domain.SessionStatusComplete
	require.NoError(t, f.sessions.Update(context.Background(), sess))

	_, err := f.svc.SubmitAnswer(context.Background(), userID, sess.ID, -1, "hello", now)
	assert.ErrorIs(t, err, ErrSessionComplete)
}

func TestSessionServiceSubmitAnswerCompletionSideEffects(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()

	first := f.addSession(t, userID, 1)
	result, err := f.svc.SubmitAnswer(context.Background(), userID, first.ID, 0, "hello", now)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusComplete, result.Session.Status)
	assert.True(t, result.StreakIncremented)
	assert.Equal(t, 1, result.Streak)

	progress, err := f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, 1, progress.DaysActive)
	assert.Equal(t, now.UnixMilli(), progress.LastSessionAtMs)

	// A second session finished the same local day keeps the streak and
	// the active-day count where they are.
	second := f.addSession(t, userID, 1)
	result, err = f.svc.SubmitAnswer(context.Background(), userID, second.ID, 0, "hello", now.Add(2*time.Hour))
	require.NoError(t, err)

	assert.False(t, result.StreakIncremented)
	assert.Equal(t, 1, result.Streak)

	progress, err = f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, 1, progress.DaysActive)
}

func TestSessionServiceAdvanceSessionSkips(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f := newSessionFixture()
	sess := f.addSession(t, userID, 2)

	advanced, err := f.svc.AdvanceSession(context.Background(), userID, sess.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, advanced.CurrentIndex)
	assert.Equal(t, domain.SessionStatusActive, advanced.Status)
	assert.Empty(t, f.cards.cards, "skipping must not grade or reschedule anything")

	// Skipping the last item completes the session with full side effects.
	advanced, err = f.svc.AdvanceSession(context.Background(), userID, sess.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusComplete, advanced.Status)

	progress, err := f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.DaysActive)

	// Retrying the advance on a complete session is a harmless no-op.
	advanced, err = f.svc.AdvanceSession(context.Background(), userID, sess.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusComplete, advanced.Status)

	progress, err = f.progress.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.DaysActive)
	assert.Equal(t, now.UnixMilli(), progress.LastSessionAtMs)
}

func TestSessionServiceAdvanceSessionOwnership(t *testing.T) {
	t.Parallel()

	f := newSessionFixture()
	sess := f.addSession(t, uuid.New(), 1)

	_, err := f.svc.AdvanceSession(context.Background(), uuid.New(), sess.ID, time.Now())
	assert.ErrorIs(t, err, ErrNotOwned)
}
