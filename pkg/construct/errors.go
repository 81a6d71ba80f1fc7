package construct

import (
	"errors"
	"fmt"
)

// Code identifies the category of a construct-tree violation.
// Codes are stable and safe for programmatic handling.
type Code string

const (
	// CodeDuplicateID indicates an identifier collision: a parent already
	// owns a child with the requested id, or a resource already defines a
	// property with the requested name.
	CodeDuplicateID Code = "DUPLICATE_ID"

	// CodeInvalidIdentity indicates that exactly one of (parent, id) was
	// provided at construction time. Both must be present for a child, or
	// both absent for a root.
	CodeInvalidIdentity Code = "INVALID_IDENTITY"

	// CodeReparentConflict indicates that the destination parent of a
	// reparent operation already owns a child with the node's id.
	CodeReparentConflict Code = "REPARENT_CONFLICT"

	// CodeNotReparentable indicates a reparent attempt on a node that is
	// not eligible: it is a root, or its current owner is not a floating
	// scope.
	CodeNotReparentable Code = "NOT_REPARENTABLE"

	// CodeUnknownProperty indicates a lookup of a property name the target
	// resource does not define.
	CodeUnknownProperty Code = "UNKNOWN_PROPERTY"

	// CodeTypeMismatch indicates that a property or link target exists but
	// has a different variant than the operation expects.
	CodeTypeMismatch Code = "TYPE_MISMATCH"

	// CodeAlreadySet indicates a set-once scalar that already holds a
	// value.
	CodeAlreadySet Code = "ALREADY_SET"

	// CodeAlreadyLinked indicates a link relationship that already holds a
	// target.
	CodeAlreadyLinked Code = "ALREADY_LINKED"

	// CodeDuplicateLogicalID indicates that two resources rendered to the
	// same logical id in the output document.
	CodeDuplicateLogicalID Code = "DUPLICATE_LOGICAL_ID"
)

// Error is a classified construct-tree error with diagnostic context.
// All violations are raised synchronously at the point of detection and
// propagate to the caller; nothing is retried or rolled back.
type Error struct {
	// Code is the violation category.
	Code Code `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Path is the tree path of the node involved, if applicable.
	Path string `json:"path,omitempty"`

	// Property is the property name involved, if applicable.
	Property string `json:"property,omitempty"`

	// Expected and Actual describe a variant mismatch, if applicable.
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s", e.Path)
		if e.Property != "" {
			msg += fmt.Sprintf(", property=%s", e.Property)
		}
		msg += ")"
	} else if e.Property != "" {
		msg += fmt.Sprintf(" (property=%s)", e.Property)
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is. Two construct errors are
// equal when their codes match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new classified error.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithPath adds node path context to an error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithProperty adds property name context to an error.
func (e *Error) WithProperty(name string) *Error {
	e.Property = name
	return e
}

// WithVariants adds expected/actual variant context to an error.
func (e *Error) WithVariants(expected, actual string) *Error {
	e.Expected = expected
	e.Actual = actual
	return e
}

// WithErr attaches an underlying error.
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

// IsCode returns true if err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDuplicateID reports an identifier collision.
func IsDuplicateID(err error) bool { return IsCode(err, CodeDuplicateID) }

// IsInvalidIdentity reports a half-specified construction identity.
func IsInvalidIdentity(err error) bool { return IsCode(err, CodeInvalidIdentity) }

// IsReparentConflict reports an id collision at a reparent destination.
func IsReparentConflict(err error) bool { return IsCode(err, CodeReparentConflict) }

// IsNotReparentable reports a reparent attempt on an ineligible node.
func IsNotReparentable(err error) bool { return IsCode(err, CodeNotReparentable) }

// IsUnknownProperty reports a lookup of an undefined property.
func IsUnknownProperty(err error) bool { return IsCode(err, CodeUnknownProperty) }

// IsTypeMismatch reports a property or target variant mismatch.
func IsTypeMismatch(err error) bool { return IsCode(err, CodeTypeMismatch) }

// IsAlreadySet reports a violated set-once scalar convention.
func IsAlreadySet(err error) bool { return IsCode(err, CodeAlreadySet) }

// IsAlreadyLinked reports a second set on a link relationship.
func IsAlreadyLinked(err error) bool { return IsCode(err, CodeAlreadyLinked) }

// IsDuplicateLogicalID reports a logical id collision during rendering.
func IsDuplicateLogicalID(err error) bool { return IsCode(err, CodeDuplicateLogicalID) }
