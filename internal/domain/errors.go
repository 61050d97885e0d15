package domain

import "errors"

var (
	ErrBatchNotFound    = errors.New("batch not found")
	ErrBatchInactive    = errors.New("batch is not active")
	ErrBatchFull        = errors.New("batch is full")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCompleted = errors.New("booking already completed")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrCheckoutInFlight = errors.New("checkout already in flight for this batch and email")
)
