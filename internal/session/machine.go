package session

import (
	"time"

	"github.com/avelow/recite-api/internal/domain"
)

// Advance moves a session's cursor forward by one item and returns the new
// session state. The input is never mutated.
//
// The transition is total and idempotent at the terminal state:
//   - a complete session is returned unchanged, so duplicated advance calls
//     from client retries neither error nor move state
//   - an empty session completes immediately with cursor 0
//   - an out-of-range cursor is clamped to the item count and the session
//     completes, so a corrupted record cannot advance past its items
//   - otherwise the cursor increments, completing the session when it
//     reaches the item count
func Advance(s *domain.Session) *domain.Session {
	next := *s

	if s.Status == domain.SessionStatusComplete {
		return &next
	}

	now := time.Now().UTC()

	switch {
	case len(s.Items) == 0:
		next.CurrentIndex = 0
		next.Status = domain.SessionStatusComplete

	case s.CurrentIndex >= len(s.Items):
		next.CurrentIndex = len(s.Items)
		next.Status = domain.SessionStatusComplete

	default:
		next.CurrentIndex = s.CurrentIndex + 1
		if next.CurrentIndex >= len(s.Items) {
			next.CurrentIndex = len(s.Items)
			next.Status = domain.SessionStatusComplete
		}
	}

	next.UpdatedAt = now
	return &next
}
