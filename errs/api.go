package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Every ApiErr unwraps to exactly one of these.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAuthRequired       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not allowed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

var titles = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Login Required",
	http.StatusForbidden:             "Access Denied",
	http.StatusNotFound:              "Page Not Found",
	http.StatusMethodNotAllowed:      "Method Not Allowed",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Upload Too Large",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Service Unavailable",
}

var generic = map[int]string{
	http.StatusBadRequest:          "The request could not be understood.",
	http.StatusUnauthorized:        "You need to log in to do that.",
	http.StatusForbidden:           "You do not have permission to view this page.",
	http.StatusNotFound:            "The page you are looking for does not exist.",
	http.StatusConflict:            "That record already exists.",
	http.StatusInternalServerError: "Something went wrong on our end.",
	http.StatusServiceUnavailable:  "The service is temporarily unavailable. Please try again later.",
}

type ApiErr struct {
	StatusCode int
	err        error
	Message    string // Message shown to the user; empty means the generic one for the code
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func newErr(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, err: kind, Message: message}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	msg := e.err.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	return msg
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Title is the fixed page title for the error's status code.
func (e *ApiErr) Title() string {
	return Title(e.StatusCode)
}

// UserMessage is the site-specific message if one was given, otherwise the generic one.
func (e *ApiErr) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if msg, ok := generic[e.StatusCode]; ok {
		return msg
	}
	return generic[http.StatusInternalServerError]
}

// Title returns the error page title for a status code.
func Title(statusCode int) string {
	if t, ok := titles[statusCode]; ok {
		return t
	}
	return http.StatusText(statusCode)
}

func InvalidInput(message string) *ApiErr {
	return newErr(http.StatusBadRequest, ErrInvalidInput, message)
}

func AuthRequired(message string) *ApiErr {
	return newErr(http.StatusUnauthorized, ErrAuthRequired, message)
}

func Forbidden(message string) *ApiErr {
	return newErr(http.StatusForbidden, ErrForbidden, message)
}

func NotFound(entity string) *ApiErr {
	return newErr(http.StatusNotFound, ErrNotFound, fmt.Sprintf("%s not found", entity))
}

func MethodNotAllowed(method string) *ApiErr {
	return newErr(http.StatusMethodNotAllowed, ErrInvalidInput, fmt.Sprintf("%s is not allowed here", method))
}

func Conflict(message string) *ApiErr {
	return newErr(http.StatusConflict, ErrConflict, message)
}

func Internal(message string) *ApiErr {
	return newErr(http.StatusInternalServerError, ErrInternal, message)
}

func InternalWithCause(message string, cause error) *ApiErr {
	e := Internal(message)
	e.Cause = cause
	return e
}

func ServiceUnavailable(message string) *ApiErr {
	return newErr(http.StatusServiceUnavailable, ErrServiceUnavailable, message)
}

// Classify returns err as an ApiErr, wrapping anything unclassified as Internal.
// Already classified errors are returned unchanged.
func Classify(err error) *ApiErr {
	if err == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return InternalWithCause("", err)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
