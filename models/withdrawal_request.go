package models

import "time"

// Withdrawal request statuses. "sheduled" (sic) survives in legacy rows and is
// treated as "scheduled" everywhere.
const (
	WithdrawalPending   = "pending"
	WithdrawalApproved  = "approved"
	WithdrawalScheduled = "scheduled"
	WithdrawalCompleted = "completed"
	WithdrawalRejected  = "rejected"
)

// WithdrawalRequest is a user's request to move wallet funds to their bank
// account. PublicID (a uuid) is what gets embedded in transaction
// descriptions and notification metadata to correlate the two streams.
type WithdrawalRequest struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublicID    string `gorm:"size:36;not null;uniqueIndex"`
	UserID      uint   `gorm:"index;not null"`
	Amount      int64  `gorm:"not null"`
	Status      string `gorm:"size:32;not null;index"`
	BankName    string `gorm:"size:255"`
	AccountName string `gorm:"size:255"`
	IBAN        string `gorm:"size:64"`
	RequestedAt time.Time
	ProcessedAt *time.Time
}
