package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure so handlers can map it to an HTTP status without
// inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidInput
	KindConflict
)

// Error carries a Kind plus a caller-facing message.
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

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindInvalidInput:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Is lets errors.Is match two taxonomy errors of the same kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}
