package auth

import "net/http"

// Kind classifies request failures. Every external-call error is
// converted to one of these at its call site; no upstream error text
// reaches a response body.
type Kind int

const (
	KindMalformedRequest Kind = iota
	KindValidationFailure
	KindCaptchaRejected
	KindCaptchaUnavailable
	KindConflict
	KindUnauthenticated
	KindNotFound
	KindBackendFailure
)

// Error is the single failure variant handed to the HTTP layer. Message
// is user-facing and fixed per rule; Status is the HTTP status the
// failure maps to.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badRequest(kind Kind, message string) *Error {
	return &Error{Kind: kind, Status: http.StatusBadRequest, Message: message}
}

func unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func internal(kind Kind, message string) *Error {
	return &Error{Kind: kind, Status: http.StatusInternalServerError, Message: message}
}
