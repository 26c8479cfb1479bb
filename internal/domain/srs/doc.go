// Package srs implements the spaced-repetition scheduler: an FSRS-family
// memory model that turns a recall rating into the next card state
// (stability, difficulty, interval, due timestamp). The algorithm sits
// behind the Service interface so the formulas can be swapped without
// touching callers. The package also owns the grading-outcome to rating
// mapping, the only place a grading result becomes a scheduling signal.
package srs
