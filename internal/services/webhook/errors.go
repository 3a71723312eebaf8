package webhook

import "errors"

var (
	ErrUnknownProvider  = errors.New("unknown webhook provider")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)
