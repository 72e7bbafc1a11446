package common

import (
	"errors"
	"net/http"
)

// ErrorKind classifies an AppError for transport mapping
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInternal     ErrorKind = "internal"
)

// Reason codes carried by validation/conflict errors so clients can
// branch without parsing messages.
const (
	ReasonPastDeparture           = "PAST_DEPARTURE"
	ReasonSeatsNotAllowedForGroup = "SEATS_NOT_ALLOWED_FOR_GROUP"
	ReasonSeatsRequired           = "SEATS_REQUIRED"
	ReasonSelfRequest             = "SELF_REQUEST"
	ReasonRideNotActive           = "RIDE_NOT_ACTIVE"
	ReasonAlreadyProcessed        = "ALREADY_PROCESSED"
	ReasonDuplicateRequest        = "DUPLICATE_REQUEST"
	ReasonEmailTaken              = "EMAIL_TAKEN"
	ReasonEmailDomainNotAllowed   = "EMAIL_DOMAIN_NOT_ALLOWED"
	ReasonInvalidCredentials      = "INVALID_CREDENTIALS"
)

// AppError is the closed error type returned by services. Handlers map
// it to an HTTP status; everything else is treated as internal.
type AppError struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a transport status code
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Err: err}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewValidationError creates a validation error with a reason code
func NewValidationError(reason, message string) *AppError {
	return &AppError{Kind: KindValidation, Reason: reason, Message: message}
}

// NewBadRequestError creates a validation error without a reason code
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

// NewConflictError creates a conflict error with a reason code
func NewConflictError(reason, message string) *AppError {
	return &AppError{Kind: KindConflict, Reason: reason, Message: message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Reason: ReasonInvalidCredentials, Message: message}
}

// NewInternalError creates an internal error wrapping the cause
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}
