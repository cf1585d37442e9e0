package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ERR is the error code carried by every Error produced by this package.
type ERR int32

const (
	ERR_UNKNOWN ERR = iota
	ERR_INVALID_REQUEST
	ERR_NO_SPENDABLE_OUTPUTS
	ERR_CONSTRUCTION_FAILED
	ERR_TELEMETRY_UNAVAILABLE
	ERR_TX_INVALID
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_CONFIGURATION
	ERR_SERVICE_ERROR
	ERR_NETWORK_TIMEOUT
	ERR_CONTEXT_CANCELED
)

var ERR_name = map[int32]string{
	int32(ERR_UNKNOWN):               "ERR_UNKNOWN",
	int32(ERR_INVALID_REQUEST):       "ERR_INVALID_REQUEST",
	int32(ERR_NO_SPENDABLE_OUTPUTS):  "ERR_NO_SPENDABLE_OUTPUTS",
	int32(ERR_CONSTRUCTION_FAILED):   "ERR_CONSTRUCTION_FAILED",
	int32(ERR_TELEMETRY_UNAVAILABLE): "ERR_TELEMETRY_UNAVAILABLE",
	int32(ERR_TX_INVALID):            "ERR_TX_INVALID",
	int32(ERR_NOT_FOUND):             "ERR_NOT_FOUND",
	int32(ERR_PROCESSING):            "ERR_PROCESSING",
	int32(ERR_CONFIGURATION):         "ERR_CONFIGURATION",
	int32(ERR_SERVICE_ERROR):         "ERR_SERVICE_ERROR",
	int32(ERR_NETWORK_TIMEOUT):       "ERR_NETWORK_TIMEOUT",
	int32(ERR_CONTEXT_CANCELED):      "ERR_CONTEXT_CANCELED",
}

func (e ERR) String() string {
	if name, ok := ERR_name[int32(e)]; ok {
		return name
	}

	return fmt.Sprintf("ERR(%d)", int32(e))
}

type Error struct {
	code       ERR
	message    string
	wrappedErr error
}

type Interface interface {
	Error() string
	Is(target error) bool
	As(target interface{}) bool
	Unwrap() error

	Code() ERR
	Message() string
	WrappedErr() error
}

func (e *Error) Error() string {
	// Error() can be called on wrapped errors, which can be nil, for example predefined errors
	if e == nil {
		return "<nil>"
	}

	if e.wrappedErr == nil {
		return fmt.Sprintf("Error: %s (error code: %d), Message: %v", e.code.String(), e.code, e.message)
	}

	return fmt.Sprintf("Error: %s (error code: %d), Message: %v, Wrapped err: %v", e.code.String(), e.code, e.message, e.wrappedErr)
}

// Is reports whether error codes match, unwrapping as needed.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	targetError, ok := target.(*Error)
	if !ok {
		return strings.Contains(e.Error(), target.Error())
	}

	if e.code == targetError.code {
		return true
	}

	if e.wrappedErr == nil {
		return false
	}

	if unwrapped := errors.Unwrap(e); unwrapped != nil {
		if ue, ok := unwrapped.(*Error); ok {
			return ue.Is(target)
		}
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	if e.wrappedErr != nil {
		return errors.As(e.wrappedErr, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

func (e *Error) WrappedErr() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

// New creates an Error with the given code. The message is treated as a
// format string for the remaining params, except that a trailing error
// param becomes the wrapped cause instead of a format argument.
func New(code ERR, message string, params ...interface{}) *Error {
	var wErr error

	if len(params) > 0 {
		lastParam := params[len(params)-1]

		switch err := lastParam.(type) {
		case *Error:
			wErr = err
			params = params[:len(params)-1]
		case error:
			wErr = &Error{code: ERR_UNKNOWN, message: err.Error()}
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		err := fmt.Errorf(message, params...)
		message = err.Error()
	}

	if _, ok := ERR_name[int32(code)]; !ok {
		return &Error{
			code:       code,
			message:    "invalid error code",
			wrappedErr: wErr,
		}
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: wErr,
	}
}

// Is mirrors the stdlib errors.Is but understands *Error code matching.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
