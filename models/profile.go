package models

import "time"

// Profile represents a user's profile (one-to-one with User). WalletBalance
// is the stored balance owned by this table; pkg/recon only computes the
// expected value for comparison, it never corrects the stored one.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	// Active indicates whether the profile is active. Use this for soft-state
	// instead of physically deleting the record. Defaults to true.
	Active        bool   `gorm:"default:true;not null"`
	UserID        uint   `gorm:"uniqueIndex;not null"` // one-to-one relation
	User          User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FirstName     string `gorm:"size:255;not null"`
	LastName      string `gorm:"size:255"`
	Email         string `gorm:"size:255"`
	Phone         string `gorm:"size:64"`
	Address       string `gorm:"size:512"`
	WalletBalance int64  `gorm:"default:0;not null"` // whole euros
	// ReferralCode is handed out to invite new users.
	ReferralCode string `gorm:"size:32;uniqueIndex"`
	// Uploads is a one-to-many relation from Profile to ReceiptUpload
	Uploads []ReceiptUpload `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
