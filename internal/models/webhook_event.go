package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is a verbatim copy of a processed processor webhook.
type WebhookEvent struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Provider    string            `gorm:"not null" json:"provider"`
	EventID     string            `gorm:"uniqueIndex;not null" json:"eventId"`
	EventType   string            `json:"eventType,omitempty"`
	Payload     datatypes.JSONMap `json:"payload"`
	ProcessedAt time.Time         `json:"processedAt"`
}
