package models

import "time"

// Notification is an advisory record surfaced in the UI. It often describes
// the same economic event as a WalletTransaction; the history merge pass must
// never show both. Metadata is flattened into typed columns instead of jsonb
// so batch tools can query it without casts.
type Notification struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	Type      string `gorm:"size:32;not null;index"` // deposit | withdrawal | investment | commission_received
	Title     string `gorm:"size:255;not null"`
	Message   string `gorm:"size:1024"`
	Seen      bool   `gorm:"default:false;index"`
	Category  string `gorm:"size:32;default:info"`
	// Metadata columns; zero values mean "absent".
	Amount        int64  `gorm:"default:0"`
	WithdrawalRef string `gorm:"size:36;index"`
	MetaStatus    string `gorm:"size:32"`
}
