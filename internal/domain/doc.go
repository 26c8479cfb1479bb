// Package domain defines the core business entities of the review lifecycle:
// exercises, per-learner scheduling cards, sessions, grading outcomes, and
// learner progress. Entities validate themselves on construction and expose
// sentinel errors for callers to match with errors.Is.
package domain
