package shared

import "fmt"

// DomainError is the base error type for all domain errors.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// SourceFormatError reports a malformed or unparseable source record
// (wrong column count, bad decimal, unreadable timestamp).
type SourceFormatError struct {
	*DomainError
	Source string
	Field  string
}

func NewSourceFormatError(source, field, message string) *SourceFormatError {
	return &SourceFormatError{
		DomainError: NewDomainError(fmt.Sprintf("%s: %s: %s", source, field, message)),
		Source:      source,
		Field:       field,
	}
}

// TemporalOrderingError reports an event or trip boundary that violates
// the monotonic-time invariants the assemblers rely on.
type TemporalOrderingError struct {
	*DomainError
}

func NewTemporalOrderingError(message string) *TemporalOrderingError {
	return &TemporalOrderingError{DomainError: NewDomainError(message)}
}

// UnknownEnumError reports a coded value (gear, species, activity) the
// platform has no mapping for.
type UnknownEnumError struct {
	*DomainError
	Kind  string
	Value string
}

func NewUnknownEnumError(kind, value string) *UnknownEnumError {
	return &UnknownEnumError{
		DomainError: NewDomainError(fmt.Sprintf("unknown %s: %q", kind, value)),
		Kind:        kind,
		Value:       value,
	}
}

// ConflictError reports an event landing inside an already-assembled
// trip's period, forcing the assembler to reconcile (replace or reject).
type ConflictError struct {
	*DomainError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{DomainError: NewDomainError(message)}
}

// StorageTransientError wraps a storage failure that is expected to clear
// on retry (connection reset, deadlock, timeout).
type StorageTransientError struct {
	*DomainError
	Cause error
}

func NewStorageTransientError(cause error) *StorageTransientError {
	msg := "transient storage error"
	if cause != nil {
		msg = cause.Error()
	}
	return &StorageTransientError{DomainError: NewDomainError(msg), Cause: cause}
}

func (e *StorageTransientError) Unwrap() error { return e.Cause }

// StoragePermanentError wraps a storage failure that retrying will not fix
// (constraint violation, schema mismatch).
type StoragePermanentError struct {
	*DomainError
	Cause error
}

func NewStoragePermanentError(cause error) *StoragePermanentError {
	msg := "permanent storage error"
	if cause != nil {
		msg = cause.Error()
	}
	return &StoragePermanentError{DomainError: NewDomainError(msg), Cause: cause}
}

func (e *StoragePermanentError) Unwrap() error { return e.Cause }

// MissingValueError reports a required field absent from an otherwise
// well-formed record.
type MissingValueError struct {
	*DomainError
	Field string
}

func NewMissingValueError(field string) *MissingValueError {
	return &MissingValueError{
		DomainError: NewDomainError(fmt.Sprintf("missing required value: %s", field)),
		Field:       field,
	}
}

// ValidationError reports a single invalid field, used by config and
// command input validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
