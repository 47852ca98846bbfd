package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when answers still fail validation after the
	// configured number of attempts.
	ErrInvalid = errors.New("tui: form is invalid")
)
