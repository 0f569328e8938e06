package unit

import (
	"errors"
	"fmt"
)

// ErrParse classifies every failure to interpret systemd output.
var ErrParse = errors.New("parse failure")

// Causes wrapped by ParseError.
var (
	ErrUnrecognizedExtension = errors.New("unrecognized unit type extension")
	ErrUnrecognizedState     = errors.New("unrecognized unit file state")
	ErrMalformedReply        = errors.New("malformed reply")
)

// ParseError reports input that could not be classified.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// IsParseError checks if an error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
