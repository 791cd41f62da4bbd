package models

import "time"

// Project is an investable project offered on the platform.
type Project struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	// MonthlyYield is the expected monthly return in percent.
	MonthlyYield int64  `gorm:"not null"`
	MinInvest    int64  `gorm:"default:0"`
	Status       string `gorm:"size:32;default:active;index"`
}

// Investment ties a user to a project for a given amount.
type Investment struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint    `gorm:"index;not null"`
	ProjectID uint    `gorm:"index;not null"`
	Project   Project `gorm:"foreignKey:ProjectID;references:ID"`
	Amount    int64   `gorm:"not null"`
	Status    string  `gorm:"size:32;default:active;index"`
	Date      time.Time
}

// ScheduledPayment is a planned yield distribution for a project. Marking it
// paid fans out yield transactions (and referral commissions) to investors.
type ScheduledPayment struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProjectID   uint    `gorm:"index;not null"`
	Project     Project `gorm:"foreignKey:ProjectID;references:ID"`
	PaymentDate time.Time
	// Percentage of each investment paid out, in percent.
	Percentage int64  `gorm:"not null"`
	Status     string `gorm:"size:32;default:pending;index"`
}
