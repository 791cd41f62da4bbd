package models

import "time"

// BankTransfer statuses as they exist in production data. The legacy French
// spellings still occur in old rows; pkg/recon normalizes them.
const (
	TransferPending  = "pending"
	TransferReceived = "received"
	TransferRejected = "rejected"
)

// BankTransfer is a declared (and later confirmed) incoming wire transfer.
// Once status reaches received the amount is credited to the wallet and a
// deposit WalletTransaction referencing Reference is written exactly once.
type BankTransfer struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	Amount    int64  `gorm:"not null"`
	Status    string `gorm:"size:32;not null;index"`
	// Reference is the DEP-<digits> token the user puts on the wire.
	Reference   string `gorm:"size:64;not null;uniqueIndex"`
	Processed   bool   `gorm:"default:false"`
	ProcessedAt *time.Time
	ConfirmedAt *time.Time
	Notes       string `gorm:"size:512"`
}
