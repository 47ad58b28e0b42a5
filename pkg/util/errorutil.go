package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes forming the failure taxonomy exposed to callers. Storage-level
// faults never escape the repositories untranslated.
const (
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeInvalidRole       = "INVALID_ROLE"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidAgent      = "INVALID_AGENT"
	CodeTicketNotFound    = "TICKET_NOT_FOUND"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeStorageFailure    = "STORAGE_FAILURE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewDuplicateUsername(username string) error {
	return NewDomainError(CodeDuplicateUsername, "username already exists", http.StatusConflict,
		map[string]any{"username": username})
}

func NewInvalidRole(role string) error {
	return NewDomainError(CodeInvalidRole, "invalid role", http.StatusBadRequest,
		map[string]any{"role": role})
}

func NewInvalidStatus(status string) error {
	return NewDomainError(CodeInvalidStatus, "invalid ticket status", http.StatusBadRequest,
		map[string]any{"status": status})
}

func NewInvalidAgent(agentID int64) error {
	return NewDomainError(CodeInvalidAgent, "agent does not exist", http.StatusBadRequest,
		map[string]any{"agent_id": agentID})
}

func NewTicketNotFound(ticketID int64) error {
	return NewDomainError(CodeTicketNotFound, "ticket not found", http.StatusNotFound,
		map[string]any{"ticket_id": ticketID})
}

func NewUserNotFound(details map[string]any) error {
	return NewDomainError(CodeUserNotFound, "user not found", http.StatusNotFound, details)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewStorageFailure(err error) error {
	return &DomainError{
		Code:       CodeStorageFailure,
		Message:    "storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError. Unknown errors are
// surfaced as storage failures.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeStorageFailure,
		Message:    "storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
