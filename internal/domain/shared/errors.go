package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Unit-related errors

type UnitError struct {
	*DomainError
	Ref string
}

func NewUnitError(ref, message string) *UnitError {
	return &UnitError{
		DomainError: &DomainError{Message: fmt.Sprintf("unit %s: %s", ref, message)},
		Ref:         ref,
	}
}

type InvalidUnitDataError struct {
	*UnitError
}

func NewInvalidUnitDataError(ref, message string) *InvalidUnitDataError {
	return &InvalidUnitDataError{UnitError: NewUnitError(ref, message)}
}

// Persistence errors

// ParseError reports a saved record that cannot be decoded. It is fatal for
// the enclosing load.
type ParseError struct {
	*DomainError
	Record string
	Key    string
}

func NewParseError(record, key, message string) *ParseError {
	msg := fmt.Sprintf("%s: %s", record, message)
	if key != "" {
		msg = fmt.Sprintf("%s: key %q: %s", record, key, message)
	}
	return &ParseError{
		DomainError: &DomainError{Message: msg},
		Record:      record,
		Key:         key,
	}
}

// UnresolvedReferenceError reports a unit reference with no live entry in the
// identity registry.
type UnresolvedReferenceError struct {
	*DomainError
	Ref string
}

func NewUnresolvedReferenceError(ref string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{
		DomainError: &DomainError{Message: fmt.Sprintf("unresolved unit reference %s", ref)},
		Ref:         ref,
	}
}

// Validation error

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
