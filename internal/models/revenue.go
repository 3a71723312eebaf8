package models

import "time"

const (
	RevenueTypeInvestorProfit  = "investor_profit"
	RevenueTypeAffiliateReward = "affiliate_reward"
	RevenueTypePlatformFee     = "platform_fee"
)

type RevenueStatus string

const (
	RevenueStatusPending   RevenueStatus = "pending"
	RevenueStatusCompleted RevenueStatus = "completed"
)

// Revenue is a profit-share or fee entry attributable to a campaign and investor.
type Revenue struct {
	ID         uint          `gorm:"primarykey" json:"id"`
	InvestorID uint          `gorm:"index;not null" json:"investorId"`
	CampaignID uint          `gorm:"index;not null" json:"campaignId"`
	Type       string        `gorm:"not null" json:"type"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Status     RevenueStatus `gorm:"index;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type RecordRevenueInput struct {
	InvestorID uint          `json:"investorId" validate:"required"`
	CampaignID uint          `json:"campaignId" validate:"required"`
	Type       string        `json:"type" validate:"required,oneof=investor_profit affiliate_reward platform_fee"`
	Amount     float64       `json:"amount" validate:"gte=0"`
	Status     RevenueStatus `json:"status" validate:"omitempty,oneof=pending completed"`
}

// RevenueSummary aggregates revenue rows. Total ignores status; Completed
// only counts completed rows.
type RevenueSummary struct {
	Total     float64   `json:"total"`
	Completed float64   `json:"completed"`
	Count     int       `json:"count"`
	Entries   []Revenue `json:"entries,omitempty"`
}
