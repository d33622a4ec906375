package question

import (
	"errors"
)

var (
	ErrMalformedXML         = errors.New("malformed xml")
	ErrMissingField         = errors.New("missing field")
	ErrInvalidType          = errors.New("invalid question type")
	ErrEmptyOptions         = errors.New("choice question without options")
	ErrDuplicateOptionValue = errors.New("duplicate option value")
	ErrTooManyOptions       = errors.New("too many options")
)

// ParseError describes why a question could not be parsed. Err is one of the
// sentinel errors of this package.
type ParseError struct {
	Err error

	Field  string
	Detail string
}

func (e *ParseError) Error() string {
	msg := "question: " + e.Err.Error()

	if e.Field != "" {
		msg += " " + e.Field
	}

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &ParseError{Err: ErrMissingField, Field: field}
}

func malformed(detail string) error {
	return &ParseError{Err: ErrMalformedXML, Detail: detail}
}
