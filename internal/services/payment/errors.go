package payment

import "errors"

var (
	ErrMissingFields   = errors.New("Missing required fields.")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidStatus   = errors.New("invalid payment status")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrForbidden       = errors.New("forbidden")

	ErrInvalidTransition = errors.New("payment already succeeded")
)
