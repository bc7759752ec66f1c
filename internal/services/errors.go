package services

import "fmt"

// ValidationError is bad input or a policy violation; the message is safe
// to surface verbatim to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means the requested entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthorizationError is an ownership or capability mismatch.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func authorizationErrorf(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}
