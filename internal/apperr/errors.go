package apperr

import "errors"

// Code identifies the failure class carried back to API clients.
type Code string

const (
	CodeNotFound  Code = "not_found"
	CodeInvalid   Code = "invalid"
	CodeForbidden Code = "forbidden"
	CodeConflict  Code = "conflict"
)

// Error is the domain error type shared by all services. Handlers map the
// code to an HTTP status, the message is safe to show to clients.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Invalid(message string) *Error {
	return &Error{Code: CodeInvalid, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool  { return is(err, CodeNotFound) }
func IsInvalid(err error) bool   { return is(err, CodeInvalid) }
func IsForbidden(err error) bool { return is(err, CodeForbidden) }
func IsConflict(err error) bool  { return is(err, CodeConflict) }
