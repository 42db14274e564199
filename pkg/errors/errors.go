package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying the HTTP status it maps to and a
// stable machine-readable code the frontend switches on.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds a catalog error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a typed code and message to an underlying cause.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone copies a catalog error, optionally overriding the message. The
// catalog entries themselves must never be mutated.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromError normalises any error into an *Error; unknown causes become
// INTERNAL_ERROR so the raw message never leaks to clients.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Generic catalog.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// Workflow catalog. The code is the reason tag the UI surfaces verbatim.
var (
	ErrInvalidDates        = New("INVALID_DATES", http.StatusBadRequest, "end date must not precede start date")
	ErrNoWorkingDays       = New("NO_WORKING_DAYS", http.StatusBadRequest, "the requested range contains no working days")
	ErrOverlap             = New("OVERLAP", http.StatusBadRequest, "an active request already covers part of this range")
	ErrInsufficientBalance = New("INSUFFICIENT_BALANCE", http.StatusBadRequest, "remaining allowance is not sufficient")
	ErrCertificateRequired = New("CERTIFICATE_REQUIRED", http.StatusBadRequest, "this leave type requires a supporting certificate")
	ErrInvalidTransition   = New("INVALID_TRANSITION", http.StatusConflict, "the request state does not permit this action")
)
