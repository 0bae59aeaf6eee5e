package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind int

const (
	ErrorValidation ErrorKind = iota
	ErrorNotFound
	ErrorPermission
	ErrorConflict
	ErrorSystem
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorValidation:
		return "validation"
	case ErrorNotFound:
		return "not_found"
	case ErrorPermission:
		return "permission"
	case ErrorConflict:
		return "conflict"
	default:
		return "system"
	}
}

// Error is the failure type every service operation returns. The kind is
// stable across releases, the detail is for humans.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func Invalid(detail string) *Error {
	return &Error{Kind: ErrorValidation, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: ErrorNotFound, Detail: detail}
}

func PermissionDenied(detail string) *Error {
	return &Error{Kind: ErrorPermission, Detail: detail}
}

func Conflict(detail string) *Error {
	return &Error{Kind: ErrorConflict, Detail: detail}
}

func System(detail string) *Error {
	return &Error{Kind: ErrorSystem, Detail: detail}
}

// KindOf maps any error to its kind. Untyped errors count as system errors.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorSystem
}

func StatusOf(err error) int {
	switch KindOf(err) {
	case ErrorValidation:
		return fiber.StatusBadRequest
	case ErrorNotFound:
		return fiber.StatusNotFound
	case ErrorPermission:
		return fiber.StatusForbidden
	case ErrorConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
