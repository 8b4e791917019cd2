package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the delivery layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindNotInitialized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindNotInitialized:
		return "not_initialized"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Data    []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so the sentinels
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrNoImage            = Validation("No image provided.")
	ErrNoFilePicked       = Validation("No file picked.")
	ErrPostNotFound       = NotFound("Post doesn't exist")
	ErrUserNotFound       = NotFound("Not found!")
	ErrNotAuthorized      = Forbidden("Not authorized!")
	ErrWrongCredentials   = Unauthorized("Wrong login or password.")
	ErrEmailTaken         = Conflict("E-Mail address already exists.")
	ErrNotAuthenticated   = Unauthorized("Not authenticated.")
	ErrTooManyAttempts    = RateLimited("Too many login attempts, please try again later.")
	ErrTooManyRequests    = RateLimited("Too many requests")
	ErrNotInitialized     = NotInitialized("broadcaster not initialized")
	ErrValidationFailed   = Validation("Validation failed, entered data is incorrect.")
	ErrStatusEmpty        = Validation("Update failed, empty field.")
	ErrUnsupportedImage   = Validation("Unsupported image type.")
	ErrInvalidRequestBody = Validation("Invalid request body.")
)

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Data: fields}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

func NotInitialized(message string) *Error {
	return &Error{Kind: KindNotInitialized, Message: message}
}

// Internal wraps an unclassified failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind carried by err, KindInternal when err is not
// classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts the classified error, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
