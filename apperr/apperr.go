package apperr

import "fmt"

// Code identifies a class of application error.
type Code string

const (
	CodeNotFound      Code = "NOT_FOUND"      // 404
	CodeInvalidInput  Code = "INVALID_INPUT"  // 400
	CodeUnauthorized  Code = "UNAUTHORIZED"   // 401
	CodeUnprocessable Code = "UNPROCESSABLE"  // 422
	CodeInternal      Code = "INTERNAL"       // 500
)

// Error is a structured application error carrying an HTTP status so the
// handler layer can map it without inspecting message text.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound creates a 404 error for a missing design, proof, or file.
func NewNotFound(what string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  404,
		Message: what,
	}
}

// NewInvalidInput creates a 400 error for malformed request values.
func NewInvalidInput(msg string) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// NewUnauthorized creates a 401 error for an admin password mismatch.
func NewUnauthorized() *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Status:  401,
		Message: "unauthorized",
	}
}

// NewUnprocessable creates a 422 error for a master file that decodes but
// cannot be recolored.
func NewUnprocessable(msg string) *Error {
	return &Error{
		Code:    CodeUnprocessable,
		Status:  422,
		Message: msg,
	}
}

// NewInternal wraps an unexpected failure as a 500 error.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeInternal,
		Status:  500,
		Message: msg,
	}
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	if aErr, ok := err.(*Error); ok {
		return aErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500 for plain
// errors.
func StatusOf(err error) int {
	if aErr, ok := err.(*Error); ok {
		return aErr.Status
	}
	return 500
}
