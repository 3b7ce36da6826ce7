package errs

import "errors"

// Sentinel errors for the checkout flow. Callers classify failures with
// errors.Is and wrap these with fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrValidation marks bad input that the user can correct.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing product, order or cart session.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a requested quantity above available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict marks an attempt to transition an order out of a terminal
	// status. It indicates a duplicated callback or a programming bug and is
	// logged server-side rather than shown verbatim to the user.
	ErrConflict = errors.New("conflicting status transition")

	// ErrTimeout marks an exhausted polling budget. It is deliberately
	// distinct from a payment failure so the caller can offer a re-check
	// instead of a generic error.
	ErrTimeout = errors.New("status polling timed out")
)
