// Package streak computes day-based streak transitions. All functions are
// pure: callers read the learner's progress record, apply a transition, and
// persist the result themselves.
package streak

const (
	millisPerMinute = 60_000
	millisPerDay    = 86_400_000
)

// State is the persisted streak portion of a learner's progress record.
type State struct {
	// Streak is the stored consecutive-day count.
	Streak int

	// LastSessionAtMs is the epoch-millisecond timestamp of the last
	// completed session. Zero means no session has ever completed.
	LastSessionAtMs int64
}

// Transition is the result of applying a completed session to a State.
type Transition struct {
	Streak          int
	LastSessionAtMs int64
	DidIncrement    bool
}

// Advance applies a session completed at nowMs to the previous streak state.
// Day boundaries are local to the learner via tzOffsetMinutes, expressed as
// minutes behind UTC the way JavaScript's Date.getTimezoneOffset reports it:
// 300 for UTC-5, -120 for UTC+2. Rules: first session ever starts the streak
// at 1; a session on the same local day leaves it unchanged; exactly one local
// day later increments it; any other gap, including an anomalous negative one,
// resets it to 1.
func Advance(prev State, nowMs int64, tzOffsetMinutes int) Transition {
	next := Transition{LastSessionAtMs: nowMs}

	if prev.LastSessionAtMs == 0 {
		next.Streak = 1
		next.DidIncrement = true
		return next
	}

	gap := dayIndex(nowMs, tzOffsetMinutes) - dayIndex(prev.LastSessionAtMs, tzOffsetMinutes)

	switch gap {
	case 0:
		next.Streak = prev.Streak
	case 1:
		next.Streak = prev.Streak + 1
		next.DidIncrement = true
	default:
		next.Streak = 1
	}

	return next
}

// Current derives the streak to display at nowMs without mutating state. A
// streak whose last session was today or yesterday (local) shows the stored
// value; anything older shows 0. The decay is visual only: the stored value
// stays untouched until the next real session goes through Advance.
func Current(s State, nowMs int64, tzOffsetMinutes int) int {
	if s.LastSessionAtMs == 0 {
		return 0
	}

	gap := dayIndex(nowMs, tzOffsetMinutes) - dayIndex(s.LastSessionAtMs, tzOffsetMinutes)
	if gap == 0 || gap == 1 {
		return s.Streak
	}
	return 0
}

// SameDay reports whether two instants fall on the same local day. Callers
// use it to count distinct active days independently of streak resets.
func SameDay(aMs, bMs int64, tzOffsetMinutes int) bool {
	return dayIndex(aMs, tzOffsetMinutes) == dayIndex(bMs, tzOffsetMinutes)
}

// dayIndex converts an epoch-millisecond timestamp to a local day ordinal.
// The offset is subtracted because it counts minutes behind UTC. Floor
// division keeps pre-epoch instants on the correct day.
func dayIndex(tsMs int64, tzOffsetMinutes int) int64 {
	local := tsMs - int64(tzOffsetMinutes)*millisPerMinute
	q := local / millisPerDay
	if local%millisPerDay != 0 && local < 0 {
		q--
	}
	return q
}
