package models

import "time"

// Template is reusable email content. Subject and body may contain {var}
// placeholders filled in by the reminder renderer.
//
// At most one template per user is default. Unlike schedules this is
// enforced only on write (others are unset), not self-healed.
type Template struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"-" gorm:"size:128;index;not null"`
	Name      string `json:"name" gorm:"not null"`
	Subject   string `json:"subject" gorm:"not null"`
	Body      string `json:"body" gorm:"type:text;not null"`
	IsDefault bool   `json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
