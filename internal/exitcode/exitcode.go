// Package exitcode classifies errors into the process exit codes returned by
// the fetchmd command.
package exitcode

import (
	"context"
	"errors"
)

// Process exit codes.
const (
	Success          = 0
	CodeInvalidInput = 1
	CodeFetch        = 2
	CodeConversion   = 3
	CodeOutput       = 4
	CodeInterrupted  = 130
	CodeUnexpected   = 255
)

// Kind is the category of a terminal error.
type Kind int

const (
	Unexpected Kind = iota
	InvalidInput
	Fetch
	Conversion
	Output
	Interrupted
)

var kindNames = map[Kind]string{
	Unexpected:   "unexpected",
	InvalidInput: "invalid input",
	Fetch:        "fetch",
	Conversion:   "conversion",
	Output:       "output",
	Interrupted:  "interrupted",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unexpected]
}

// Code returns the exit code for k.
func (k Kind) Code() int {
	switch k {
	case InvalidInput:
		return CodeInvalidInput
	case Fetch:
		return CodeFetch
	case Conversion:
		return CodeConversion
	case Output:
		return CodeOutput
	case Interrupted:
		return CodeInterrupted
	default:
		return CodeUnexpected
	}
}

// Error attaches a Kind to an underlying error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err as kind. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the classification of err. An explicit kind wins; an
// unclassified context.Canceled counts as Interrupted.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Interrupted
	}
	return Unexpected
}

// Code maps err to a process exit code. A nil error is Success.
func Code(err error) int {
	if err == nil {
		return Success
	}
	return KindOf(err).Code()
}
