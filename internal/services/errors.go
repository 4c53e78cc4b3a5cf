package services

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to API clients, so UI layers can distinguish
// "fix your input" from "not allowed" from "too early".
const (
	CodeValidation             = "validation_error"
	CodeNotFoundOrUnauthorized = "not_found_or_unauthorized"
	CodePreconditionFailed     = "precondition_failed"
	CodeStorage                = "storage_error"
)

// ServiceError carries a stable code alongside the human-readable message.
type ServiceError struct {
	Code    string
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.cause }

func validationError(msg string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

// notFoundOrUnauthorized deliberately merges "does not exist" and "not yours"
// so the response never leaks whether a record exists to non-participants.
func notFoundOrUnauthorized(entity string) *ServiceError {
	return &ServiceError{Code: CodeNotFoundOrUnauthorized, Message: entity + " not found"}
}

func preconditionFailed(msg string) *ServiceError {
	return &ServiceError{Code: CodePreconditionFailed, Message: msg}
}

func storageError(err error) *ServiceError {
	return &ServiceError{Code: CodeStorage, Message: "storage failure", cause: err}
}

// CodeOf extracts the stable code from err, or CodeStorage for anything
// outside the taxonomy.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeStorage
}
