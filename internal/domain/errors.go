// Package domain contains business logic types and errors.
//
// Domain errors are expected failures. Each one carries the HTTP status and the
// response payload that should reach the caller unchanged, so the HTTP layer can
// render them without a mapping table. Anything that is not a domain error is an
// internal fault and is never shown to the caller.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as duplicate entry or version mismatch.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by business rules.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// Payload is the structured response body attached to a domain error.
type Payload struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// newPayload builds the payload shape shared by the typed errors below.
func newPayload(status int, message string) Payload {
	return Payload{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	}
}

// Error is a generic domain error: an explicit HTTP status plus a response
// payload. The payload is usually a Payload, a plain string, or a
// map[string]any with a "message" key.
type Error struct {
	Status   int
	Response any
	Cause    error
}

// NewError creates a domain error with the given status and payload.
func NewError(status int, response any) *Error {
	return &Error{Status: status, Response: response}
}

// NewErrorWithMessage creates a domain error whose payload is a Payload
// carrying message.
func NewErrorWithMessage(status int, message string) *Error {
	return &Error{Status: status, Response: newPayload(status, message)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := http.StatusText(e.Status)

	switch p := e.Response.(type) {
	case string:
		msg = p
	case Payload:
		msg = p.Message
	}

	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, msg, e.Cause)
	}

	return fmt.Sprintf("%d %s", e.Status, msg)
}

// StatusCode returns the HTTP status carried by the error.
func (e *Error) StatusCode() int {
	return e.Status
}

// ResponsePayload returns the payload that should be shown to the caller.
func (e *Error) ResponsePayload() any {
	return e.Response
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// NewRouteNotFoundError reports a request for a route that does not exist.
func NewRouteNotFoundError(method, url string) *Error {
	return NewErrorWithMessage(http.StatusNotFound, fmt.Sprintf("Cannot %s %s", method, url))
}

// NewMethodNotAllowedError reports a route that exists under other methods.
func NewMethodNotAllowedError(method, url string) *Error {
	return NewErrorWithMessage(http.StatusMethodNotAllowed, fmt.Sprintf("Cannot %s %s", method, url))
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StatusCode returns 404.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ResponsePayload returns the caller-facing payload.
func (e *NotFoundError) ResponsePayload() any {
	return newPayload(http.StatusNotFound, e.Error())
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s conflict: %s (%s)", e.Entity, e.Reason, e.Details)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StatusCode returns 409.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// ResponsePayload returns the caller-facing payload.
func (e *ConflictError) ResponsePayload() any {
	return newPayload(http.StatusConflict, e.Error())
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewConflictErrorWithDetails creates a conflict error with additional details.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
}

// ValidationError provides context for validation errors.
// Messages holds one entry per failed rule when the error comes from
// request validation; the response payload then carries them as a list.
type ValidationError struct {
	Field    string
	Message  string
	Value    any
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) > 0 {
		return "validation failed: " + strings.Join(e.Messages, "; ")
	}

	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StatusCode returns 400.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// ResponsePayload returns the caller-facing payload. A multi-message
// validation failure is rendered as a map whose "message" is a list.
func (e *ValidationError) ResponsePayload() any {
	if len(e.Messages) > 0 {
		return map[string]any{
			"statusCode": http.StatusBadRequest,
			"message":    e.Messages,
			"error":      http.StatusText(http.StatusBadRequest),
		}
	}

	return newPayload(http.StatusBadRequest, e.Error())
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// NewValidationErrors creates a validation error carrying one message per failed rule.
func NewValidationErrors(messages []string) error {
	return &ValidationError{Messages: messages}
}

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// StatusCode returns 403.
func (e *ForbiddenError) StatusCode() int {
	return http.StatusForbidden
}

// ResponsePayload returns the caller-facing payload.
func (e *ForbiddenError) ResponsePayload() any {
	return newPayload(http.StatusForbidden, e.Error())
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// StatusCode returns 503.
func (e *UnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// ResponsePayload returns the caller-facing payload.
func (e *UnavailableError) ResponsePayload() any {
	return newPayload(http.StatusServiceUnavailable, e.Error())
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
