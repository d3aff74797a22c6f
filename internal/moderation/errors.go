package moderation

import "fmt"

// ValidationError indicates a caller-supplied input was missing or malformed.
// Surfaced as a client error by the web layer; nothing was written.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: missing %s", e.Field)
}

// PersistenceError indicates the warning store rejected a write or read.
// The warning must be treated as not recorded; the caller may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("warning store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SanctionApplyError wraps a failed auto-sanction call. It never escapes
// RecordWarning as a request failure: it is folded into the result as an
// advisory note, because the warning itself is the authoritative action.
type SanctionApplyError struct {
	Kind SanctionKind
	Err  error
}

func (e *SanctionApplyError) Error() string {
	return fmt.Sprintf("auto-sanction %s failed: %v", e.Kind, e.Err)
}

func (e *SanctionApplyError) Unwrap() error {
	return e.Err
}
