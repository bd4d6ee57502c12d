// Package perr defines the prediction engine's error taxonomy
// (spec.md §6.5, §7) and the error-listener contract it reports
// through (spec.md §6.3), adapted from the teacher's own row-annotated
// error.SpecError.
package perr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nihei9/goantlr-atn/token"
)

// Kind tags the structured failure categories spec.md §6.5 names.
type Kind int

const (
	// NoViableAlt means the simulator could not advance on any
	// alternative for the current input.
	NoViableAlt Kind = iota
	// InputMismatch means the parser expected one token but received
	// another outside of prediction.
	InputMismatch
	// FailedPredicate means a uniquely-predicted alternative's guard
	// evaluated false.
	FailedPredicate
	// NegativeArraySize means a serialized ATN declared an impossible
	// table size.
	NegativeArraySize
	// IndexOutOfBounds means an index was out of the valid range for a
	// table or stream operation (distinct from bitset's own panic type).
	IndexOutOfBounds
	// UnsupportedOperation means the serialized ATN format/version is
	// not one this loader understands.
	UnsupportedOperation
	// IllegalState means an internal invariant was violated: a frozen
	// config set was mutated, or a malformed ATN escaped loading.
	IllegalState
)

func (k Kind) String() string {
	switch k {
	case NoViableAlt:
		return "NoViableAlt"
	case InputMismatch:
		return "InputMismatch"
	case FailedPredicate:
		return "FailedPredicate"
	case NegativeArraySize:
		return "NegativeArraySize"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case UnsupportedOperation:
		return "UnsupportedOperation"
	case IllegalState:
		return "IllegalState"
	default:
		return "Unknown"
	}
}

// PredictionError is the structured failure surfaced to a parser when
// prediction cannot proceed. It never indicates a mere ambiguity — that
// is reported through ErrorListener.ReportAmbiguity instead and
// prediction still returns a valid alt.
type PredictionError struct {
	Kind       Kind
	Message    string
	Decision   int
	Offending  token.Token
	Cause      error
}

func (e *PredictionError) Error() string {
	msg := fmt.Sprintf("%v: %v (decision %v)", e.Kind, e.Message, e.Decision)
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// New builds a PredictionError of the given kind.
func New(kind Kind, decision int, format string, args ...interface{}) *PredictionError {
	return &PredictionError{Kind: kind, Decision: decision, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a PredictionError of the given kind, wrapping cause via
// github.com/pkg/errors so the chain survives errors.Cause/errors.Is.
func Wrap(kind Kind, decision int, cause error, format string, args ...interface{}) *PredictionError {
	return &PredictionError{
		Kind:     kind,
		Decision: decision,
		Message:  fmt.Sprintf(format, args...),
		Cause:    errors.Wrap(cause, kind.String()),
	}
}
