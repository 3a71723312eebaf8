package models

import (
	"time"
)

// Ledger transaction types
const (
	TransactionTypeInvestment = "investment"
	TransactionTypeRevenue    = "revenue"
	TransactionTypePayout     = "payout"
	TransactionTypeCommission = "commission"
)

// IsValidTransactionType reports whether t is a known ledger type.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeInvestment, TransactionTypeRevenue, TransactionTypePayout, TransactionTypeCommission:
		return true
	}
	return false
}

// Transaction is an append-only money movement. Amount and description only
// change through reconciliation.
type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Type        string    `gorm:"index;not null" json:"type"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Currency    string    `gorm:"not null;default:'USD'" json:"currency"`
	Description string    `json:"description"`
	RelatedID   string    `gorm:"index" json:"relatedId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "ledger_transactions"
}

type RecordTransactionInput struct {
	UserID      uint    `json:"userId" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=investment revenue payout commission"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"required"`
	Description string  `json:"description"`
	RelatedID   string  `json:"relatedId"`
}

// ReconcileInput patches a transaction; nil fields are left untouched.
type ReconcileInput struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}
