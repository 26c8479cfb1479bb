// Package session composes the items for one sitting and advances a
// session's cursor. The planner is deterministic: the same grouped input
// always yields the same item order. The progress machine is a total
// function over well-formed sessions; advancing a complete session is a
// no-op rather than an error so duplicated client requests stay harmless.
package session
