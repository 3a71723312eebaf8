package advisor

import "errors"

var (
	ErrUnknownTask      = errors.New("unknown AI task")
	ErrMissingFields    = errors.New("Missing required fields: query, userId")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAIUnavailable    = errors.New("AI provider request failed")
	ErrNotConfigured    = errors.New("AI provider is not configured")
)
