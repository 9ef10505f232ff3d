package errs

import "errors"

// Code is the stable, client-facing name of an error kind.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeSlotFull          Code = "SLOT_FULL"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeAuthRequired      Code = "AUTH_REQUIRED"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInternal          Code = "INTERNAL"
)

// CodeOf classifies err. Anything outside the taxonomy is CodeInternal.
func CodeOf(err error) Code {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return CodeAuthRequired
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrSlotFull):
		return CodeSlotFull
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrObjectNotFound):
		return CodeNotFound
	case IsValidation(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}
