// internal/game/errors.go
// Typed errors raised by the lifecycle core. All three kinds are recoverable:
// handlers catch them with errors.As and translate them into 4xx responses with
// field-level detail, rather than treating them as server faults.
package game

import (
	"fmt"
	"strings"
)

// FieldError describes a single structural problem with a game document —
// which field is wrong and why. ValidateGame returns a list of these so a
// client can surface every problem at once instead of fixing them one at a time.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError wraps one or more FieldErrors when an operation rejects its
// input outright. Validation is all-or-nothing: one bad score entry in a batch
// fails the whole batch rather than silently dropping the bad entry.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// newValidationError is a convenience for the common single-field case.
func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// InvalidTransitionError reports an attempt to move a game to a status that is
// not adjacent to its current one in the lifecycle graph. The caller should
// re-check the allowed actions for the game's current status before retrying.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("a new game can only be initialized to %q, not %q", StatusCreated, e.To)
	}
	return fmt.Sprintf("cannot transition from %q to %q", e.From, e.To)
}

// FinalizationError reports that Finalize was called on a game that isn't
// ready to be finalized — either it isn't in the completed state yet, or no
// results have been calculated to lock in.
type FinalizationError struct {
	Reason string
}

func (e *FinalizationError) Error() string {
	return "cannot finalize game: " + e.Reason
}
