// Package ingest loads structured corpus files and turns their sentences
// into graded exercises. The corpus format is the output of the content
// pipeline: an ordered list of source sentences, each paired with a reference
// translation and a difficulty score.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/store"
)

// Corpus-specific errors.
var (
	ErrCorpusEmpty     = errors.New("corpus contains no sentences")
	ErrSentenceInvalid = errors.New("corpus sentence is invalid")
)

// Sentence is one corpus entry. Field names follow the corpus JSON produced
// by the content pipeline.
type Sentence struct {
	ID                   string `json:"id"`
	Latin                string `json:"latin"`
	ReferenceTranslation string `json:"referenceTranslation"`
	Difficulty           int    `json:"difficulty"`

	// Order is the sentence's 1-based position in the source text. Imports
	// create exercises in this order so ListUnseen serves the text front
	// to back.
	Order int `json:"order"`

	AlignmentConfidence float64 `json:"alignmentConfidence,omitempty"`
}

// Corpus is a parsed corpus file.
type Corpus struct {
	Sentences []Sentence `json:"sentences"`
}

// LoadCorpus reads and validates a corpus file. Both the wrapped form
// ({"sentences": [...]}) and a bare sentence array are accepted.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		var sentences []Sentence
		if arrErr := json.Unmarshal(data, &sentences); arrErr != nil {
			return nil, fmt.Errorf("failed to parse corpus file: %w", err)
		}
		corpus.Sentences = sentences
	}

	if len(corpus.Sentences) == 0 {
		return nil, ErrCorpusEmpty
	}

	for _, sentence := range corpus.Sentences {
		if err := validateSentence(sentence); err != nil {
			return nil, err
		}
	}

	return &corpus, nil
}

func validateSentence(s Sentence) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: missing id", ErrSentenceInvalid)
	case s.Latin == "":
		return fmt.Errorf("%w: %s has no source text", ErrSentenceInvalid, s.ID)
	case s.ReferenceTranslation == "":
		return fmt.Errorf("%w: %s has no reference translation", ErrSentenceInvalid, s.ID)
	case s.Order < 1:
		return fmt.Errorf("%w: %s has order %d", ErrSentenceInvalid, s.ID, s.Order)
	}
	return nil
}

// Result summarizes one import run.
type Result struct {
	// Created is the number of exercises written.
	Created int

	// Skipped counts sentences whose exercise already existed. A re-import
	// of the same corpus skips everything.
	Skipped int
}

// Importer writes corpus sentences into the exercise store.
type Importer struct {
	exerciseStore store.ExerciseStore
	logger        *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(exerciseStore store.ExerciseStore, log *slog.Logger) *Importer {
	if exerciseStore == nil {
		panic("exerciseStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		exerciseStore: exerciseStore,
		logger:        log.With(slog.String("component", "corpus_importer")),
	}
}

// Import creates one translation exercise per corpus sentence, in source-text
// order. Sentences whose exercise already exists are skipped, so running the
// same import twice is harmless.
func (i *Importer) Import(ctx context.Context, corpus *Corpus) (Result, error) {
	sentences := make([]Sentence, len(corpus.Sentences))
	copy(sentences, corpus.Sentences)
	sort.SliceStable(sentences, func(a, b int) bool {
		return sentences[a].Order < sentences[b].Order
	})

	var result Result
	for _, sentence := range sentences {
		exercise, err := domain.NewExercise(
			domain.ExerciseTypeTranslation,
			"Translate: "+sentence.Latin,
			sentence.ReferenceTranslation,
		)
		if err != nil {
			return result, fmt.Errorf("failed to build exercise for %s: %w", sentence.ID, err)
		}

		if err := i.exerciseStore.Create(ctx, exercise); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("failed to create exercise for %s: %w", sentence.ID, err)
		}
		result.Created++
	}

	i.logger.InfoContext(ctx, "corpus import finished",
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))

	return result, nil
}
