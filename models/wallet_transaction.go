package models

import "time"

// Transaction types mirror the business reason for a wallet movement.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxYield      = "yield"
	TxCommission = "commission"
	TxInvestment = "investment"
)

// Transaction statuses. "scheduled" is an intermediate state used by
// withdrawal processing; completed rows are immutable.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusScheduled = "scheduled"
)

// WalletTransaction is one row of a user's wallet ledger. Amount is whole
// euros; the sign is carried by Type, not by Amount.
type WalletTransaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	Amount    int64  `gorm:"not null"`
	Type      string `gorm:"size:32;not null;index"`
	Status    string `gorm:"size:32;not null;index"`
	// Description may embed a bank reference (DEP-...) or a withdrawal id
	// (#<uuid>); history deduplication keys off these tokens.
	Description      string `gorm:"size:512"`
	ReceiptConfirmed bool   `gorm:"default:false"`
	InvestmentID     *uint  `gorm:"index"`
	ProjectID        *uint  `gorm:"index"`
}
