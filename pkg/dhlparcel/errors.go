package dhlparcel

import (
	"errors"
	"fmt"
)

// Sentinel errors for the validation failures this package reports.
var (
	// ErrInvalidAddress indicates an address violated one of its invariants.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidArgument indicates a package, shipment or call argument is invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingArgument indicates a required argument was not supplied.
	ErrMissingArgument = errors.New("missing argument")
)

// ValidationError describes a rejected input. Kind is one of the sentinel
// errors above and is what errors.Is matches against.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap returns the sentinel kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalidAddress(field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrInvalidAddress, Field: field, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrInvalidArgument, Field: field, Message: fmt.Sprintf(format, args...)}
}

func missingArgument(field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrMissingArgument, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ClientError is returned by a Transport when the carrier answers with a
// non-2xx status. Body holds the raw response body.
type ClientError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("dhl api error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("dhl api error: HTTP %d: %s", e.StatusCode, e.Body)
}

// Is reports whether target is a ClientError with the same status code.
// A target with StatusCode 0 matches any ClientError.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.StatusCode == 0 || e.StatusCode == t.StatusCode
}

// AsClientError extracts a *ClientError from err's chain.
func AsClientError(err error) (*ClientError, bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr, true
	}
	return nil, false
}
