// Package service composes the domain packages and stores into the
// application's use cases: planning sessions, grading answers, serving the
// review queue, and tracking progress. Services own transaction boundaries
// and learner-ownership checks; handlers stay thin.
package service
