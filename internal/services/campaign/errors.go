package campaign

import "errors"

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrInvalidCampaign  = errors.New("invalid campaign")
	ErrInvalidStatus    = errors.New("invalid campaign status")
	ErrForbidden        = errors.New("forbidden")
)
