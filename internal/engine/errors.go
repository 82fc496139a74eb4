// internal/engine/errors.go
package engine

// The engine's error taxonomy. Every operation failure is one of these;
// the event loop converts them into a single error frame sent back to the
// requesting connection. None of them are fatal to the connection or the
// process, and none leave state partially mutated: handlers validate before
// they write.

// ValidationError reports malformed input. The message is surfaced verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a stale or unknown reference, e.g. a lobby id that
// no longer exists.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a violated precondition: full roster, wrong status,
// already in a lobby, wrong pin.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// CollaboratorError reports a failed judging call. It is caught at the
// submission pipeline boundary and mapped to a zero-credit verdict; it never
// propagates as a crash.
type CollaboratorError struct {
	Message string
}

func (e *CollaboratorError) Error() string { return e.Message }
