// Package gemini implements the grading.Judge interface against Google's
// Gemini API. Each Grade call is a single API attempt; retry and circuit
// breaking live in the grading pipeline.
package gemini
