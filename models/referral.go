package models

import "time"

// Referral links a referred user to their referrer. The referrer earns a 10%
// commission on every yield payment the referred user receives.
type Referral struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ReferrerID uint   `gorm:"index;not null"`
	ReferredID uint   `gorm:"uniqueIndex;not null"` // a user has at most one referrer
	Code       string `gorm:"size:32;index"`
}
