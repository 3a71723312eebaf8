package investment

import "errors"

var (
	ErrBidNotFound       = errors.New("investment not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidTransition = errors.New("invalid investment status transition")
)
