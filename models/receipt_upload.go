package models

import "time"

// ReceiptUpload is a transfer receipt image uploaded by a user as proof of a
// wire transfer. OCR tries to extract the amount and DEP reference and link
// the upload to the matching BankTransfer.
type ReceiptUpload struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FileName    string  `gorm:"size:255;not null"`
	StorePath   string  `gorm:"column:store_path;size:512"`
	ProfileID   uint    `gorm:"index;not null"`
	Profile     Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContentType string  `gorm:"size:128"`
	TransferID  *uint   `gorm:"index"` // FK to bank_transfers.id (nullable until matched)
	// Mark upload as failed for OCR processing (keep the record so admin can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
