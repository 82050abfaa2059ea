// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code and a human-readable message.
package clierr

import (
	"errors"
	"fmt"

	"mahami/internal/store"
)

// Error codes. Stable strings; scripts match on them.
const (
	TaskNotFound    = "TASK_NOT_FOUND"
	AmbiguousID     = "AMBIGUOUS_ID"
	InvalidInput    = "INVALID_INPUT"
	InvalidPriority = "INVALID_PRIORITY"
	InvalidStatus   = "INVALID_STATUS"
	InvalidSort     = "INVALID_SORT"
	InvalidDate     = "INVALID_DATE"
	ReminderInPast  = "REMINDER_IN_PAST"
	NoChanges       = "NO_CHANGES"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	InternalError   = "INTERNAL_ERROR"
)

type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2
	}
	return 1
}

// FromStore maps store sentinel errors to CLI errors. Anything else is
// reported as an internal error.
func FromStore(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return New(TaskNotFound, err.Error())
	case errors.Is(err, store.ErrAmbiguousID):
		return New(AmbiguousID, err.Error())
	case errors.Is(err, store.ErrReminderNotInFuture):
		return New(ReminderInPast, err.Error())
	default:
		return New(InternalError, err.Error())
	}
}
