package booking

import (
	"errors"
	"fmt"
)

// Error codes for booking operations.
const (
	CodeInvalidInput    = "invalid_input"
	CodeNotFound        = "not_found"
	CodeSlotConflict    = "slot_conflict"
	CodeUnauthorized    = "unauthorized"
	CodeAdapterDegraded = "adapter_degraded"
)

// Error is a structured booking error. SlotConflict is definitive for the
// submitted parameters: callers must re-fetch availability rather than
// retry blindly.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidInput(format string, args ...any) error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewSlotConflict(format string, args ...any) error {
	return &Error{Code: CodeSlotConflict, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorized(format string, args ...any) error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the booking error code, or empty string for plain errors.
func CodeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsConflict reports whether err is a definitive slot conflict.
func IsConflict(err error) bool {
	return CodeOf(err) == CodeSlotConflict
}
