package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSlotFull           = errors.New("delivery slot is full")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrRateLimited        = errors.New("rate limited")
	ErrAuthRequired       = errors.New("authentication required")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateOrderCode = errors.New("order code already taken")
)

// InsufficientStockError carries the quantity still available so callers can
// suggest a smaller cart.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s, requested %d, available %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type SlotFullError struct {
	SlotID string
}

func NewSlotFullError(slotID string) *SlotFullError {
	return &SlotFullError{SlotID: slotID}
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotFull, e.SlotID)
}

func (e *SlotFullError) Unwrap() error {
	return ErrSlotFull
}

type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
