package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registration and moderation flows. Controllers map
// these to HTTP statuses in one place.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authorized")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyRegistered = errors.New("already applied to this event")
	ErrEventFull         = errors.New("event is full, no more applications accepted")
	ErrEventInPast       = errors.New("cannot apply to a past event")
	ErrNotRegistered     = errors.New("you are not registered for this event")
)

// ValidationError reports malformed input or a violated invariant. The message
// names the constraint and is surfaced verbatim to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
