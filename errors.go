package snowhost

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// BridgeError is an error produced by the host bridge. Every BridgeError can be
// matched against the sentinel it was derived from with [errors.Is].
type BridgeError interface {
	error
	WithMessage(message string) BridgeError
	Wrap(err error) BridgeError
}

type baseBridgeError string

var ErrChecksumMismatch = baseBridgeError("Checksum mismatch")
var ErrCoreShutDown = baseBridgeError("Emulator core shut down")
var ErrInvalidArgument = baseBridgeError("Invalid argument")
var ErrIOFailed = baseBridgeError("Input/output error")
var ErrNoCore = baseBridgeError("No emulator core available")
var ErrNotFound = baseBridgeError("No such file or directory")
var ErrNotSupported = baseBridgeError("Operation not supported")
var ErrUnknownFormat = baseBridgeError("Unrecognized image format")

func (e baseBridgeError) Error() string {
	return string(e)
}

// WithMessage returns a new error that replaces the sentinel's text with
// `message`, while still matching the sentinel.
func (e baseBridgeError) WithMessage(message string) BridgeError {
	return customBridgeError{
		message:       message,
		originalError: e,
	}
}

// Wrap returns a new error whose text is the sentinel's followed by `err`'s.
// The result matches both the sentinel and `err`.
func (e baseBridgeError) Wrap(err error) BridgeError {
	return customBridgeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customBridgeError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customBridgeError) Error() string {
	return e.message
}

func (e customBridgeError) WithMessage(message string) BridgeError {
	return customBridgeError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customBridgeError) Wrap(err error) BridgeError {
	return customBridgeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customBridgeError) Unwrap() error {
	return e.originalError
}
