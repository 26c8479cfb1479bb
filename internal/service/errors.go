package service

import "errors"

// Service-level errors mapped to HTTP responses by the API layer.
var (
	// ErrNotOwned is returned when a learner touches a resource belonging
	// to someone else. Handlers translate it to 404 rather than 403 so the
	// response does not confirm the resource exists.
	ErrNotOwned = errors.New("resource not owned by requester")

	// ErrSessionComplete is returned when an answer is submitted to a
	// session that has no remaining items.
	ErrSessionComplete = errors.New("session is already complete")

	// ErrSessionConflict is returned when a concurrent request advanced the
	// session between grading and recording. The caller should refetch the
	// session and retry against the current item.
	ErrSessionConflict = errors.New("session advanced concurrently")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails. Identical for an
	// unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
