package models

import "time"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusApproved  CampaignStatus = "approved"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusFunding   CampaignStatus = "funding"
	CampaignStatusCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusPending, CampaignStatusApproved, CampaignStatusRejected,
		CampaignStatusFunding, CampaignStatusCompleted:
		return true
	}
	return false
}

// Campaign is a funding proposal for a climate project.
type Campaign struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OwnerID       uint           `gorm:"index;not null" json:"ownerId"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Sector        string         `gorm:"index;not null" json:"sector"`
	Location      string         `json:"location,omitempty"`
	FundingGoal   float64        `gorm:"not null" json:"fundingGoal"`
	MinInvestment float64        `gorm:"not null" json:"minInvestment"`
	RaisedAmount  float64        `gorm:"not null;default:0" json:"raisedAmount"`
	Status        CampaignStatus `gorm:"index;not null;default:'pending'" json:"status"`
	AIScore       *float64       `json:"aiScore,omitempty"`
	AISummary     string         `json:"aiSummary,omitempty"`
	ThumbnailURL  string         `json:"thumbnailUrl,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type CreateCampaignInput struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	Sector        string  `json:"sector" validate:"required"`
	Location      string  `json:"location"`
	FundingGoal   float64 `json:"fundingGoal" validate:"required"`
	MinInvestment float64 `json:"minInvestment" validate:"required"`
	ThumbnailURL  string  `json:"thumbnailUrl"`
}

// CampaignFilter narrows admin listings. Empty fields match everything.
type CampaignFilter struct {
	Status CampaignStatus
	Sector string
	Limit  int
	Offset int
}
