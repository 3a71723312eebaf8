package models

import (
	"time"

	"gorm.io/datatypes"
)

// AIRecommendation caches a generated list of related campaign ids. Rows are
// never updated; the newest row per campaign wins.
type AIRecommendation struct {
	ID                     uint                        `gorm:"primarykey" json:"id"`
	CampaignID             uint                        `gorm:"index;not null" json:"campaignId"`
	RecommendedCampaignIDs datatypes.JSONSlice[string] `json:"recommendedCampaignIds"`
	Score                  *float64                    `json:"score,omitempty"`
	CreatedAt              time.Time                   `json:"createdAt"`
}

const (
	AIContentSummary        = "summary"
	AIContentRecommendation = "recommendation"
	AIContentForecast       = "forecast"
	AIContentSolution       = "solution"
)

// AIContent stores generated analysis text.
type AIContent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CampaignID *uint     `gorm:"index" json:"campaignId,omitempty"`
	Type       string    `gorm:"index;not null" json:"type"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
