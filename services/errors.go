package services

import "errors"

// Lifecycle error taxonomy. Controllers map these onto HTTP codes:
// ErrNotFound -> 404, everything else here -> 400.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("order is not in a claimable state")
	ErrAlreadyAssigned   = errors.New("order already assigned to a driver")
	ErrDriverBusy        = errors.New("driver already has an active delivery")
	ErrDriverUnavailable = errors.New("driver is not available")
	ErrNotFound          = errors.New("record not found")
)

// ValidationError reports a rejected order payload. The message is surfaced
// to the end user as a blocking message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
