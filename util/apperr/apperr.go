// Package apperr carries the coded errors shared by the catalog and
// rental services. Every guard failure surfaces one of these, with a
// reason string for the caller.
package apperr

import "errors"

type Code string

const (
	NotFound     Code = "NOT_FOUND"
	Unauthorized Code = "UNAUTHORIZED"
	Conflict     Code = "CONFLICT"
	Validation   Code = "VALIDATION_ERROR"
)

type codedError struct {
	code   Code
	reason string
}

func (e codedError) Error() string { return e.reason }
func (e codedError) Code() Code    { return e.code }

func New(c Code, reason string) error { return codedError{code: c, reason: reason} }

// CodeOf extracts the error code, or "" for uncoded errors.
func CodeOf(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

func Is(err error, c Code) bool { return CodeOf(err) == c }
