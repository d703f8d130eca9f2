package store

import "errors"

// Sentinel errors returned by store operations.
// Services translate these into domain errors with user-facing messages.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")

	ErrUserNotFound    = errors.New("user not found")
	ErrEntryNotFound   = errors.New("list entry not found")
	ErrSessionNotFound = errors.New("session not found")
)
