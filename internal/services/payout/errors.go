package payout

import "errors"

var (
	ErrPayoutNotFound    = errors.New("payout not found")
	ErrInvalidPayout     = errors.New("invalid payout request")
	ErrInvalidTransition = errors.New("invalid payout status transition")
	ErrForbidden         = errors.New("forbidden")
)
