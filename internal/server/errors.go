// Package server provides the HTTP REST API for brief studio.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrBriefNotFound indicates a brief was not found or does not belong to the
// requesting user. Ownership failures report not-found so brief IDs are not
// enumerable across accounts.
type ErrBriefNotFound struct {
	BriefID uuid.UUID
}

func (e *ErrBriefNotFound) Error() string {
	return fmt.Sprintf("brief not found: %s", e.BriefID)
}

// ErrRewriteInFlight indicates a rewrite is already running under the same
// guard key: the brief, or the user when the request names no brief. Only
// one rewrite call may be outstanding per key at a time.
type ErrRewriteInFlight struct {
	Key uuid.UUID
}

func (e *ErrRewriteInFlight) Error() string {
	return fmt.Sprintf("rewrite already in flight for %s", e.Key)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrBriefNotFound:
		return http.StatusNotFound
	case *ErrRewriteInFlight:
		return http.StatusConflict
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
