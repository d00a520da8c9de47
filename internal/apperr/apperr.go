package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the application-level error carried from services up to the HTTP
// boundary, where Write turns it into a JSON body. Code values are stable and
// part of the API contract.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest}
}

func Authorization(message string) *Error {
	return &Error{Code: "AUTHORIZATION_ERROR", Message: message, HTTPStatus: http.StatusForbidden}
}

func InvalidTransition(message string) *Error {
	return &Error{Code: "INVALID_TRANSITION", Message: message, HTTPStatus: http.StatusConflict}
}

func NotEligible(message string) *Error {
	return &Error{Code: "NOT_ELIGIBLE", Message: message, HTTPStatus: http.StatusBadRequest}
}

func NotFound(resource string) *Error {
	return &Error{Code: "NOT_FOUND", Message: resource + " not found", HTTPStatus: http.StatusNotFound}
}

func PaymentInitiation(err error) *Error {
	return &Error{Code: "PAYMENT_INITIATION_FAILED", Message: "payment could not be started, try again", HTTPStatus: http.StatusBadGateway, Err: err}
}

func PaymentCallback(message string) *Error {
	return &Error{Code: "PAYMENT_CALLBACK_REJECTED", Message: message, HTTPStatus: http.StatusBadRequest}
}

// InvalidCredentials is deliberately generic: unknown phone, wrong code,
// expired code and wrong password must be indistinguishable to the caller.
func InvalidCredentials() *Error {
	return &Error{Code: "INVALID_CREDENTIALS", Message: "invalid phone or credentials", HTTPStatus: http.StatusBadRequest}
}

func Internal(err error) *Error {
	return &Error{Code: "INTERNAL_ERROR", Message: "internal server error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// From converts any error to an *Error, wrapping unknown ones as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
