package session

import "errors"

var (
	// ErrCategoryLocked is returned when a toggle targets a category the
	// voter has already permanently voted in.
	ErrCategoryLocked = errors.New("category already voted")

	// ErrEmptyBallot is returned when a confirmation is attempted with no
	// selections.
	ErrEmptyBallot = errors.New("no votes to submit")

	// ErrAlreadySubmitting is returned when a second confirmation arrives
	// while one submission is still in flight.
	ErrAlreadySubmitting = errors.New("submission already in flight")

	// ErrNoAnchor means no session start timestamp exists in the store.
	// The session never properly started; callers must abort to the
	// identity step.
	ErrNoAnchor = errors.New("no session start anchor")

	// ErrSessionInvalid means persisted session state is missing or
	// unreadable. Terminal; callers must abort to the identity step.
	ErrSessionInvalid = errors.New("session state missing or invalid")

	// ErrNotActive is returned when an operation requires an active
	// session but the controller is in some other state.
	ErrNotActive = errors.New("session not active")
)
