package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	FollowUpStatusPending = "PENDING"
	FollowUpStatusSent    = "SENT"
	FollowUpStatusSkipped = "SKIPPED"
	FollowUpStatusFailed  = "FAILED"
)

// FollowUp is one generated reminder event: a schedule step applied to an
// invoice, with the template already rendered. Rows are batch-created by the
// generator; only PENDING rows are ever replaced on regeneration, everything
// else is permanent history.
type FollowUp struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	InvoiceID  uint `json:"invoice_id" gorm:"index:idx_follow_ups_invoice_status,priority:1;not null"`
	TemplateID uint `json:"template_id" gorm:"not null"`

	ScheduledDate time.Time `json:"scheduled_date" gorm:"index;not null"`
	Subject       string    `json:"subject" gorm:"not null"`
	Body          string    `json:"body" gorm:"type:text;not null"`

	// Variable map snapshot used for rendering, kept for audit.
	Variables datatypes.JSON `json:"variables" gorm:"type:jsonb"`

	Status       string     `json:"status" gorm:"size:20;default:'PENDING';index:idx_follow_ups_invoice_status,priority:2"`
	SentAt       *time.Time `json:"sent_at"`
	ErrorMessage string     `json:"error_message"`

	CreatedAt time.Time `json:"created_at"`
}
