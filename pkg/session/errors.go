package session

import "errors"

var (
	// ErrSessionActive is returned by Open while another session is unclosed.
	ErrSessionActive = errors.New("session: another session is active")

	// ErrNoCandidates is returned when the manager has no encoders to try.
	ErrNoCandidates = errors.New("session: no encoder candidates configured")

	// ErrUnavailable marks a candidate skipped because its backend is missing.
	ErrUnavailable = errors.New("session: encoder backend unavailable")

	// ErrNotOpen is returned by Write on a session that is not open.
	ErrNotOpen = errors.New("session: not open")
)
