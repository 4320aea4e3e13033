// Package apperr is the error taxonomy shared by the stores and the engine.
// Handlers return these errors as-is and the app error handler renders them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthorized     Kind = "unauthorized"
	KindNotFound         Kind = "not_found"
	KindNoInventory      Kind = "no_inventory"
	KindAlreadyCompleted Kind = "already_completed"
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindPersistence      Kind = "persistence"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) Status() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindNoInventory:
		return http.StatusUnprocessableEntity
	case KindAlreadyCompleted, KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	ErrUnauthorized     = New(KindUnauthorized, "Unauthorized", nil)
	ErrNotFound         = New(KindNotFound, "Not found", nil)
	ErrNoInventory      = New(KindNoInventory, "No inventory items found to revise", nil)
	ErrAlreadyCompleted = New(KindAlreadyCompleted, "Revision is already completed", nil)
)

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

func Persistence(message string, err error) *Error {
	return New(KindPersistence, message, err)
}

// From returns err as an *Error, wrapping anything else as a persistence failure.
func From(err error, message string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Persistence(message, err)
}

// PublicMessage is the text safe to show a user: the Message of an *Error,
// a generic text for anything else.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// StatusOf maps any error to an HTTP status.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
