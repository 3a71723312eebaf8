package models

import "time"

// PayoutStatus moves pending -> approved -> paid, or pending -> rejected.
type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusRejected PayoutStatus = "rejected"
	PayoutStatusPaid     PayoutStatus = "paid"
)

// PayoutRequest is a user withdrawal request.
type PayoutRequest struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	UserID    uint         `gorm:"index;not null" json:"userId"`
	Amount    float64      `gorm:"not null" json:"amount"`
	Method    string       `gorm:"not null" json:"method"`
	Status    PayoutStatus `gorm:"index;not null;default:'pending'" json:"status"`
	Details   string       `gorm:"type:text" json:"details"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

const (
	PayoutActionRequested = "requested"
	PayoutActionApproved  = "approved"
	PayoutActionRejected  = "rejected"
	PayoutActionPaid      = "paid"
)

// PayoutAudit is one append-only entry in a payout's audit trail.
type PayoutAudit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PayoutID  uint      `gorm:"index;not null" json:"payoutId"`
	ActorID   uint      `gorm:"not null" json:"actorId"`
	Action    string    `gorm:"not null" json:"action"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatePayoutInput struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Method  string  `json:"method" validate:"required"`
	Details string  `json:"details"`
}
