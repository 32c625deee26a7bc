// Package service holds the business rules of the agency backend.  The
// services resolve the caller through the Gateway, enforce the role
// policy, and talk to storage through the narrow interfaces in stores.go.
package service

import (
	"errors"
	"fmt"

	"github.com/divyansh01440/nirvana-agency/internal/repository"
)

// Error kinds.  Every error a service returns for a client-caused
// failure wraps exactly one of these.
var (
	ErrNotAuthenticated = errors.New("not_authenticated")
	ErrNotAuthorized    = errors.New("not_authorized")
	ErrNotFound         = errors.New("not_found")
	ErrConflict         = errors.New("conflict")
	ErrExpired          = errors.New("expired")
	ErrMismatch         = errors.New("mismatch")
	ErrValidation       = errors.New("validation")
)

// Error pairs an error kind with a message safe to show to end users.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

// Message returns the user-facing message carried by err, or "" when err
// is not a service error.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// storeErr converts repository sentinels into service errors.  notFound
// is the message used for a missing row.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fail(ErrNotFound, notFound)
	case errors.Is(err, repository.ErrUsernameExists):
		return fail(ErrConflict, "Username already taken")
	case errors.Is(err, repository.ErrEmailExists):
		return fail(ErrConflict, "User already exists")
	case errors.Is(err, repository.ErrDuplicateReview):
		return fail(ErrConflict, "Already reviewed this booking")
	case errors.Is(err, repository.ErrConflict):
		return fail(ErrConflict, "Conflict")
	}
	return err
}
