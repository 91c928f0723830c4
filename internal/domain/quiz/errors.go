package quiz

import "errors"

// Closed error taxonomy for the quiz engine. Every engine operation
// returns either one of these (possibly wrapped) or a complete payload;
// callers branch with errors.Is.
var (
	// ErrNotFound covers unknown or expired sessions and missing words.
	// After the expiry sweep removes a session this is what callers see,
	// even if the session was never finished; the expected reaction is to
	// start a new quiz.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed is returned by operations that require an open
	// session, including a second Finish call.
	ErrAlreadyClosed = errors.New("quiz already closed")

	// ErrInsufficientPool means a question could not be built because
	// fewer than two usable words were available.
	ErrInsufficientPool = errors.New("not enough words to build options")

	// ErrNoItems means the catalog filter matched nothing.
	ErrNoItems = errors.New("no words match the given criteria")

	// ErrNothingToRetry means the prior result has no wrong words.
	ErrNothingToRetry = errors.New("no wrong words to retry")

	// ErrValidation flags malformed caller input, such as an
	// out-of-range question position or a blank answer.
	ErrValidation = errors.New("invalid input")
)
