package models

import (
	"time"
)

// Invoice statuses. OVERDUE is an explicit terminal marker set by the user;
// "past due but still collecting" invoices stay PENDING and are flagged as
// overdue only for display.
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice is the current/live state of a billable amount owed by a client.
type Invoice struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	UserID        string `json:"-" gorm:"size:128;not null;index:idx_invoices_user_number,unique,priority:1"`
	InvoiceNumber string `json:"invoice_number" gorm:"not null;index:idx_invoices_user_number,unique,priority:2"`
	ClientName    string `json:"client_name" gorm:"not null"`
	ClientEmail   string `json:"client_email" gorm:"not null"`

	Amount   float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Currency string    `json:"currency" gorm:"size:3;default:'USD'"`
	DueDate  time.Time `json:"due_date" gorm:"not null"`
	Status   string    `json:"status" gorm:"size:20;default:'PENDING';index"`

	// Notes doubles as the {invoiceLink} slot in reminder templates.
	Notes string `json:"notes"`

	// Explicit reminder policy; nil falls back to the user's default schedule.
	ScheduleID *uint     `json:"schedule_id"`
	Schedule   *Schedule `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`

	// Reminder bookkeeping, maintained by the follow-up generator and mailer.
	LastReminderSentAt      *time.Time `json:"last_reminder_sent_at"`
	TotalScheduledReminders int        `json:"total_scheduled_reminders"`
	RemindersCompleted      bool       `json:"reminders_completed"`
	RemindersEnabled        bool       `json:"reminders_enabled" gorm:"default:true"`
	RemindersPausedReason   string     `json:"reminders_paused_reason"`
	RemindersResetAt        *time.Time `json:"reminders_reset_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the invoice can still accumulate reminders.
func (i *Invoice) Terminal() bool {
	return i.Status != InvoiceStatusPending
}
