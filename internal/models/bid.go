package models

import "time"

// BidStatus is the state of an investment commitment. It only ever advances.
type BidStatus string

const (
	BidStatusPending BidStatus = "pending"
	BidStatusSuccess BidStatus = "success"
	BidStatusFailed  BidStatus = "failed"
	BidStatusFunded  BidStatus = "funded"
	BidStatusSettled BidStatus = "settled"
)

// Bid is an investor's capital commitment toward a campaign.
// Remaining is the outstanding principal: 0 <= Remaining <= Amount.
type Bid struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CampaignID  uint      `gorm:"index;not null" json:"campaignId"`
	InvestorID  uint      `gorm:"index;not null" json:"investorId"`
	AffiliateID *uint     `json:"affiliateId,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Remaining   float64   `gorm:"not null" json:"remaining"`
	Status      BidStatus `gorm:"index;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInvestmentInput struct {
	CampaignID  uint    `json:"campaignId" validate:"required"`
	InvestorID  uint    `json:"investorId"`
	Principal   float64 `json:"principal" validate:"required,gt=0"`
	AffiliateID *uint   `json:"affiliateId"`
}

// RepaymentResult reports the bid state after a repayment.
type RepaymentResult struct {
	Remaining float64   `json:"remaining"`
	Status    BidStatus `json:"status"`
}
