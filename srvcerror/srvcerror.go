package srvcerror

import "net/http"

type Error struct {
	errorCode  string
	msgToUser  string // public
	dbgInfoErr error  // private, for debugging

	httpStatus int // optional, for HTTP responses
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

// SetDebug returns a copy carrying err, so package-level errors can be
// shared safely.
func (e *Error) SetDebug(err error) *Error {
	cp := *e
	cp.dbgInfoErr = err
	return &cp
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

// Is matches service errors by code, so errors.Is works against the
// package-level constructors' results.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.errorCode == t.errorCode
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"internal server error",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const ErrCodeUnauthenticated = "unauthenticated"

// ErrUnauthenticated is returned for a missing, malformed, forged or
// expired credential alike.
func ErrUnauthenticated() *Error {
	return New(
		ErrCodeUnauthenticated,
		"authentication required",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

const ErrCodeForbidden = "forbidden"

func ErrForbidden(msg string) *Error {
	return New(
		ErrCodeForbidden,
		msg,
	).SetHttpStatusCode(http.StatusForbidden)
}
