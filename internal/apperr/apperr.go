// Package apperr defines the typed error taxonomy shared by every workflow
// boundary. Services return *Error values; handlers translate the kind into an
// HTTP status and never expose the wrapped internal cause.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind discriminates error categories across workflow boundaries.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindBusinessLogic   Kind = "business_logic"
	KindDatabase        Kind = "database"
	KindExternalService Kind = "external_service"
	KindRateLimit       Kind = "rate_limit"
)

// Error carries a kind, a machine-readable code, and a client-safe message.
// The wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

// Unwrap exposes the internal cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an error without an underlying cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches an internal cause to a typed error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Validation reports invalid caller input.
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// Authentication reports a missing or unverifiable identity.
func Authentication(code, message string) *Error {
	return New(KindAuthentication, code, message)
}

// Authorization reports an identity that lacks access to the resource.
func Authorization(code, message string) *Error {
	return New(KindAuthorization, code, message)
}

// NotFound reports a missing resource.
func NotFound(resource string) *Error {
	return New(KindNotFound, resource+"_not_found", resource+" not found")
}

// BusinessLogic reports a domain-rule violation.
func BusinessLogic(code, message string) *Error {
	return New(KindBusinessLogic, code, message)
}

// Database wraps a storage fault behind a generic client message.
func Database(err error) *Error {
	return Wrap(KindDatabase, "database_error", "a storage error occurred", err)
}

// ExternalService wraps a downstream dependency fault.
func ExternalService(code string, err error) *Error {
	return Wrap(KindExternalService, code, "an external service is unavailable", err)
}

// RateLimit reports request throttling.
func RateLimit() *Error {
	return New(KindRateLimit, "rate_limited", "too many requests")
}

// KindOf extracts the kind from an error chain; unknown faults map to database.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindDatabase
}

// CodeOf extracts the machine-readable code, if any.
func CodeOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// From returns the typed error in the chain, or wraps the fault as a database
// error so the boundary always has a kind to translate.
func From(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return Database(err)
}

// HTTPStatus maps a kind to the status code rendered at the HTTP boundary.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindBusinessLogic:
		return fiber.StatusUnprocessableEntity
	case KindRateLimit:
		return fiber.StatusTooManyRequests
	case KindExternalService:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
