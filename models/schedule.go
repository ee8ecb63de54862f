package models

import "time"

// Schedule is a named, ordered reminder policy owned by a user.
//
// At most one schedule per user carries IsDefault=true. The rule is enforced
// by repair logic in the reminder package and backed by a partial unique
// index (see database.AutoMigrate).
type Schedule struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"-" gorm:"size:128;index;not null"`
	Name      string `json:"name" gorm:"not null"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	IsDefault bool   `json:"is_default"`

	Steps []ScheduleStep `json:"steps" gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleStep is one (day-offset, template) rung of a schedule.
// DayOffset is relative to the invoice due date: 0 = on the due date,
// positive = days overdue.
type ScheduleStep struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ScheduleID uint `json:"-" gorm:"index;not null"`
	DayOffset  int  `json:"day_offset" gorm:"not null"`
	StepOrder  int  `json:"order" gorm:"not null"`

	TemplateID uint     `json:"template_id" gorm:"not null;index"`
	Template   Template `json:"template" gorm:"foreignKey:TemplateID"`
}
