package decode

import "errors"

// ErrIncompleteFrame signals that fewer bytes than one full frame are
// buffered. It is a normal transient state, not a failure: the decode
// attempt consumes nothing and the caller retries on the next poll cycle.
var ErrIncompleteFrame = errors.New("incomplete frame")

// Common error codes.
const (
	ErrCodeInvalidWidth     = "INVALID_WIDTH"
	ErrCodeInvalidByteOrder = "INVALID_BYTE_ORDER"
)

// DecodeError represents a decoder configuration error.
type DecodeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error.
func NewDecodeError(code, message string, cause error) *DecodeError {
	return &DecodeError{Code: code, Message: message, Cause: cause}
}
