package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/store"
)

// fakeExerciseStore keys exercises by prompt, matching the database's
// uniqueness guarantee for imported content.
type fakeExerciseStore struct {
	byPrompt map[string]*domain.Exercise
	prompts  []string
}

func newFakeExerciseStore() *fakeExerciseStore {
	return &fakeExerciseStore{byPrompt: make(map[string]*domain.Exercise)}
}

func (s *fakeExerciseStore) Create(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := s.byPrompt[exercise.Prompt]; ok {
		return store.ErrDuplicate
	}
	copied := *exercise
	s.byPrompt[exercise.Prompt] = &copied
	s.prompts = append(s.prompts, exercise.Prompt)
	return nil
}

func (s *fakeExerciseStore) GetByID(context.Context, uuid.UUID) (*domain.Exercise, error) {
	return nil, store.ErrExerciseNotFound
}

func (s *fakeExerciseStore) GetByIDs(context.Context, []uuid.UUID) (map[uuid.UUID]*domain.Exercise, error) {
	return map[uuid.UUID]*domain.Exercise{}, nil
}

func (s *fakeExerciseStore) ListUnseen(context.Context, uuid.UUID, int) ([]*domain.Exercise, error) {
	return nil, nil
}

func (s *fakeExerciseStore) ListPracticed(context.Context, uuid.UUID, time.Time, int) ([]*domain.Exercise, error) {
	return nil, nil
}

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestImporter(exercises *fakeExerciseStore) *Importer {
	return NewImporter(exercises, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const wrappedCorpus = `{
	"sentences": [
		{"id": "bg.1.1.2", "latin": "Hi omnes lingua differunt.", "referenceTranslation": "All these differ in language.", "difficulty": 34, "order": 2},
		{"id": "bg.1.1.1", "latin": "Gallia est omnis divisa in partes tres.", "referenceTranslation": "All Gaul is divided into three parts.", "difficulty": 22, "order": 1, "alignmentConfidence": 0.97}
	]
}`

func TestLoadCorpus(t *testing.T) {
	t.Parallel()

	corpus, err := LoadCorpus(writeCorpusFile(t, wrappedCorpus))
	require.NoError(t, err)

	require.Len(t, corpus.Sentences, 2)
	assert.Equal(t, "bg.1.1.2", corpus.Sentences[0].ID)
	assert.Equal(t, "Gallia est omnis divisa in partes tres.", corpus.Sentences[1].Latin)
	assert.Equal(t, 1, corpus.Sentences[1].Order)
	assert.InDelta(t, 0.97, corpus.Sentences[1].AlignmentConfidence, 1e-9)
}

func TestLoadCorpusBareArray(t *testing.T) {
	t.Parallel()

	content := `[{"id": "bg.1.1.1", "latin": "Gallia est.", "referenceTranslation": "Gaul is.", "difficulty": 5, "order": 1}]`

	corpus, err := LoadCorpus(writeCorpusFile(t, content))
	require.NoError(t, err)
	require.Len(t, corpus.Sentences, 1)
	assert.Equal(t, "Gaul is.", corpus.Sentences[0].ReferenceTranslation)
}

func TestLoadCorpusRejectsBadInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{"no sentences", `{"sentences": []}`, ErrCorpusEmpty},
		{"missing id", `[{"latin": "Gallia est.", "referenceTranslation": "Gaul is.", "order": 1}]`, ErrSentenceInvalid},
		{"missing source text", `[{"id": "bg.1.1.1", "referenceTranslation": "Gaul is.", "order": 1}]`, ErrSentenceInvalid},
		{"missing translation", `[{"id": "bg.1.1.1", "latin": "Gallia est.", "order": 1}]`, ErrSentenceInvalid},
		{"zero order", `[{"id": "bg.1.1.1", "latin": "Gallia est.", "referenceTranslation": "Gaul is.", "order": 0}]`, ErrSentenceInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCorpus(writeCorpusFile(t, tc.content))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoadCorpusUnparseableFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCorpus(writeCorpusFile(t, `{not json`))
	assert.ErrorContains(t, err, "failed to parse corpus file")

	_, err = LoadCorpus(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read corpus file")
}

func TestImportCreatesInSourceOrder(t *testing.T) {
	t.Parallel()

	corpus, err := LoadCorpus(writeCorpusFile(t, wrappedCorpus))
	require.NoError(t, err)

	exercises := newFakeExerciseStore()
	result, err := newTestImporter(exercises).Import(context.Background(), corpus)
	require.NoError(t, err)

	assert.Equal(t, Result{Created: 2}, result)

	// Exercises are created by ascending order, not file order, so the
	// created_at-ordered unseen pool serves the text front to back.
	require.Equal(t, []string{
		"Translate: Gallia est omnis divisa in partes tres.",
		"Translate: Hi omnes lingua differunt.",
	}, exercises.prompts)

	created := exercises.byPrompt[exercises.prompts[0]]
	assert.Equal(t, domain.ExerciseTypeTranslation, created.Type)
	assert.Equal(t, "All Gaul is divided into three parts.", created.Reference)
}

func TestImportSkipsExistingExercises(t *testing.T) {
	t.Parallel()

	corpus, err := LoadCorpus(writeCorpusFile(t, wrappedCorpus))
	require.NoError(t, err)

	exercises := newFakeExerciseStore()
	importer := newTestImporter(exercises)

	_, err = importer.Import(context.Background(), corpus)
	require.NoError(t, err)

	// Re-importing the same corpus is a no-op.
	result, err := importer.Import(context.Background(), corpus)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, result)
	assert.Len(t, exercises.byPrompt, 2)
}
