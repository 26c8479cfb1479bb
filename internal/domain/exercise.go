package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ExerciseType classifies an exercise by the kind of answer it expects.
// The type determines the answer length ceiling enforced by the grading
// pipeline before any external call is made.
type ExerciseType string

// Recognized exercise types.
const (
	ExerciseTypeTranslation  ExerciseType = "translation"
	ExerciseTypeCloze        ExerciseType = "cloze"
	ExerciseTypeFreeResponse ExerciseType = "free_response"
)

// IsValid reports whether the exercise type is recognized.
func (t ExerciseType) IsValid() bool {
	switch t {
	case ExerciseTypeTranslation, ExerciseTypeCloze, ExerciseTypeFreeResponse:
		return true
	default:
		return false
	}
}

// AnswerLimit returns the maximum accepted answer length in characters for
// this exercise type. Longer answers are rejected without grading.
func (t ExerciseType) AnswerLimit() int {
	if t == ExerciseTypeFreeResponse {
		return 2000
	}
	return 500
}

// Exercise-specific validation errors.
var (
	ErrExerciseIDEmpty        = errors.New("exercise ID cannot be empty")
	ErrExerciseTypeInvalid    = errors.New("exercise type is not recognized")
	ErrExercisePromptEmpty    = errors.New("exercise prompt cannot be empty")
	ErrExerciseReferenceEmpty = errors.New("exercise reference answer cannot be empty")
)

// Exercise is a single graded learning item: the material shown to the
// learner plus the reference answer the judgment service grades against.
type Exercise struct {
	ID        uuid.UUID    `json:"id"`
	Type      ExerciseType `json:"type"`
	Prompt    string       `json:"prompt"`
	Reference string       `json:"reference"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewExercise creates a new Exercise with a generated ID.
// Returns an error if validation fails.
func NewExercise(exerciseType ExerciseType, prompt, reference string) (*Exercise, error) {
	now := time.Now().UTC()
	exercise := &Exercise{
		ID:        uuid.New(),
		Type:      exerciseType,
		Prompt:    prompt,
		Reference: reference,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	return exercise, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return ErrExerciseIDEmpty
	}

	if !e.Type.IsValid() {
		return ErrExerciseTypeInvalid
	}

	if e.Prompt == "" {
		return ErrExercisePromptEmpty
	}

	if e.Reference == "" {
		return ErrExerciseReferenceEmpty
	}

	return nil
}
