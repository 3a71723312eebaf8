package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationTypeSale             = "sale"
	NotificationTypeCommission       = "commission"
	NotificationTypeSystem           = "system"
	NotificationTypeAlert            = "alert"
	NotificationTypeInfo             = "info"
	NotificationTypeAIRecommendation = "ai_recommendation"
)

func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeSale, NotificationTypeCommission, NotificationTypeSystem,
		NotificationTypeAlert, NotificationTypeInfo, NotificationTypeAIRecommendation:
		return true
	}
	return false
}

// Notification is a per-user message. Read only ever flips false -> true.
type Notification struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	UserID    uint              `gorm:"index;not null" json:"userId"`
	Message   string            `gorm:"not null" json:"message"`
	Type      string            `gorm:"index;not null" json:"type"`
	Meta      datatypes.JSONMap `json:"meta"`
	Read      bool              `gorm:"index;not null;default:false" json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

type CreateNotificationInput struct {
	UserID  uint                   `json:"userId" validate:"required"`
	Message string                 `json:"message" validate:"required"`
	Type    string                 `json:"type" validate:"required,oneof=sale commission system alert info ai_recommendation"`
	Meta    map[string]interface{} `json:"meta"`
}

type SystemNotificationInput struct {
	InvestorID     uint   `json:"investorId" validate:"required"`
	AffiliateID    *uint  `json:"affiliateId"`
	CampaignTitle  string `json:"campaignTitle" validate:"required"`
	RecommendedIDs []uint `json:"recommendedIds"`
}
