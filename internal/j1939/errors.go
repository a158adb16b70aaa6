package j1939

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds. FrameError and SignalError unwrap to one of these, so callers
// can classify a failure with errors.Is.
var (
	ErrInvalidFrameFormat = errors.New("invalid frame format")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrSignalOutOfRange   = errors.New("signal out of range")
	ErrSignalDecode       = errors.New("signal decode error")
)

// FrameError reports malformed frame text. Token is the offending input.
type FrameError struct {
	Kind   error
	Token  string
	Detail string
}

func (e *FrameError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Token)
	}
	return fmt.Sprintf("%v: %s (%s)", e.Kind, e.Token, e.Detail)
}

func (e *FrameError) Unwrap() error { return e.Kind }

func frameErrorf(kind error, token, format string, args ...interface{}) *FrameError {
	return &FrameError{Kind: kind, Token: token, Detail: fmt.Sprintf(format, args...)}
}

// SignalError reports a failure decoding a single SPN. It never invalidates
// the frame header or sibling signals.
type SignalError struct {
	Kind   error
	SPN    uint32
	Detail string
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("SPN %d: %v: %s", e.SPN, e.Kind, e.Detail)
}

func (e *SignalError) Unwrap() error { return e.Kind }

func signalErrorf(kind error, spn uint32, format string, args ...interface{}) *SignalError {
	return &SignalError{Kind: kind, SPN: spn, Detail: fmt.Sprintf(format, args...)}
}

// NewSignalDecodeError builds a SignalDecodeError for spn. Metadata
// collaborators use it for definitions they could not convert.
func NewSignalDecodeError(spn uint32, cause error) *SignalError {
	return &SignalError{Kind: ErrSignalDecode, SPN: spn, Detail: cause.Error()}
}
