package session

import "errors"

// Session state errors
var (
	// ErrNoTopic is returned when a card is requested before a topic was loaded.
	ErrNoTopic = errors.New("no topic loaded")

	// ErrNoCurrentCard is returned when an answer is submitted with no card shown.
	ErrNoCurrentCard = errors.New("no current card")

	// ErrVerdictPending is returned when the session waits for the learner
	// to accept or override the proposed verdict.
	ErrVerdictPending = errors.New("verdict pending")

	// ErrNoVerdictPending is returned when a verdict is resolved before an
	// answer was submitted.
	ErrNoVerdictPending = errors.New("no verdict pending")

	// ErrHintUnavailable is returned when the current card has no hint, the
	// hint was already revealed or the answer was already submitted.
	ErrHintUnavailable = errors.New("hint unavailable")
)
