package srs

import (
	"fmt"

	"github.com/avelow/recite-api/internal/domain"
)

// Rating is the recall-quality signal fed to the scheduler.
type Rating int

// Possible ratings, ordered from complete failure to effortless recall.
const (
	RatingAgain Rating = iota + 1 // Forgot; the answer was wrong
	RatingHard                    // Recalled with difficulty
	RatingGood                    // Recalled normally
	RatingEasy                    // Effortless recall; kept for the algorithm, never mapped
)

var ratingNames = [...]string{RatingAgain: "again", RatingHard: "hard", RatingGood: "good", RatingEasy: "easy"}

// IsValid reports whether r is a recognized rating.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// String returns the lowercase rating name.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// RatingForStatus maps a grading status to the scheduling signal:
// INCORRECT means the learner forgot, PARTIAL means recall with difficulty,
// CORRECT means normal recall. RatingEasy is deliberately never produced:
// the grading mechanism cannot detect effortless recall, and conflating it
// with Good keeps intervals from growing faster than the evidence supports.
// Unrecognized statuses map to RatingAgain so a degraded input can only
// shorten an interval, never lengthen it.
func RatingForStatus(status domain.GradingStatus) Rating {
	switch status {
	case domain.GradingStatusCorrect:
		return RatingGood
	case domain.GradingStatusPartial:
		return RatingHard
	default:
		return RatingAgain
	}
}
