package models

import "time"

// EmailLog is an immutable audit record of an actual send attempt,
// written by the mailer and consumed only for display.
type EmailLog struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"-" gorm:"size:128;index;not null"`
	InvoiceID uint   `json:"invoice_id" gorm:"index"`

	Recipient string    `json:"recipient" gorm:"not null"`
	Subject   string    `json:"subject"`
	SentAt    time.Time `json:"sent_at" gorm:"not null"`
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
}
