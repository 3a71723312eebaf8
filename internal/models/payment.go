package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus of a single processor transaction attempt.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusSuccess || s == PaymentStatusFailed
}

const (
	PaymentMethodCard        = "card"
	PaymentMethodFlutterwave = "flutterwave"
)

// Payment is one row per external payment-processor transaction.
type Payment struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	BidID         *uint             `gorm:"index" json:"bidId,omitempty"`
	TxRef         string            `gorm:"index;not null" json:"txRef"`
	Amount        float64           `gorm:"not null" json:"amount"`
	Currency      string            `gorm:"not null;default:'USD'" json:"currency"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Status        PaymentStatus     `gorm:"not null;default:'pending'" json:"status"`
	Response      datatypes.JSONMap `json:"response,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// CreatePaymentInput mirrors the payment-creation endpoint body.
type CreatePaymentInput struct {
	Amount        float64                `json:"amount"`
	Currency      string                 `json:"currency"`
	PaymentMethod string                 `json:"paymentMethod"`
	Response      map[string]interface{} `json:"response"`
	BidID         *uint                  `json:"bidId"`
	TxRef         string                 `json:"txRef"`
}
