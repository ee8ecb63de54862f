package reminder

import (
	"fmt"

	"github.com/odilorg/invoiceflow-saas-sub000/models"
)

// DefaultScheduleName is the name given to the bootstrapped schedule.
const DefaultScheduleName = "Standard Payment Reminder"

type baselineTemplate struct {
	Name    string
	Subject string
	Body    string
}

// The three baseline templates, in the order the default schedule uses them.
var baselineTemplates = []baselineTemplate{
	{
		Name:    "Friendly Reminder",
		Subject: "Friendly reminder: invoice {invoiceNumber} is due",
		Body: "Hi {clientName},\n\n" +
			"Just a friendly reminder that invoice {invoiceNumber} for {amount} is due on {dueDate}.\n\n" +
			"You can view the invoice here:\n" +
			"{invoiceLink}\n\n" +
			"Thank you!",
	},
	{
		Name:    "Neutral Follow-up",
		Subject: "Follow-up on invoice {invoiceNumber}",
		Body: "Hello {clientName},\n\n" +
			"This is a follow-up regarding invoice {invoiceNumber} for {amount} ({currency}), which was due on {dueDate}.\n\n" +
			"If you have already made the payment, please disregard this message.\n\n" +
			"{invoiceLink}\n\n" +
			"Best regards",
	},
	{
		Name:    "Firm Reminder",
		Subject: "Overdue: invoice {invoiceNumber} ({daysOverdue} days past due)",
		Body: "Dear {clientName},\n\n" +
			"Invoice {invoiceNumber} for {amount} is now {daysOverdue} days overdue. Payment was due on {dueDate}.\n\n" +
			"Please arrange payment at your earliest convenience.\n\n" +
			"{invoiceLink}",
	},
}

// Day offsets and ordering of the bootstrapped schedule's steps, index-aligned
// with baselineTemplates.
var defaultStepOffsets = []int{0, 3, 7}

// EnsureDefaultTemplates makes sure the user owns the three baseline
// templates, creating any that are missing by name and leaving existing ones
// untouched. If the user has no default template yet, the first template
// created here becomes the default; existing default flags are never
// overwritten. Returns the baseline templates in canonical order.
func (s *Service) EnsureDefaultTemplates(userID string) ([]models.Template, error) {
	var out []models.Template
	err := s.store.Transaction(func(st Store) error {
		var err error
		out, err = ensureDefaultTemplates(st, userID)
		return err
	})
	return out, err
}

func ensureDefaultTemplates(st Store, userID string) ([]models.Template, error) {
	existing, err := st.ListTemplates(userID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.Template, len(existing))
	hasDefault := false
	for i := range existing {
		byName[existing[i].Name] = &existing[i]
		if existing[i].IsDefault {
			hasDefault = true
		}
	}

	out := make([]models.Template, 0, len(baselineTemplates))
	for _, b := range baselineTemplates {
		if t, ok := byName[b.Name]; ok {
			out = append(out, *t)
			continue
		}
		t := models.Template{
			UserID:    userID,
			Name:      b.Name,
			Subject:   b.Subject,
			Body:      b.Body,
			IsDefault: !hasDefault,
		}
		if err := st.CreateTemplate(&t); err != nil {
			return nil, fmt.Errorf("create template %q: %w", b.Name, err)
		}
		hasDefault = true
		out = append(out, t)
	}
	return out, nil
}

// EnsureDefaultSchedule guarantees the user ends up with exactly one default
// schedule and returns it. Idempotent; self-heals inconsistent states:
//
//  1. no schedules        -> create the baseline schedule (and templates)
//  2. none default        -> promote the most recently updated active one,
//     or create the baseline schedule if none is active
//  3. multiple default    -> keep the most recently updated, clear the rest
//  4. exactly one default -> no-op
//
// All branches run inside one store transaction so that concurrent callers
// (two invoice creations for a brand-new user) cannot produce two defaults.
func (s *Service) EnsureDefaultSchedule(userID string) (*models.Schedule, error) {
	var out *models.Schedule
	err := s.store.Transaction(func(st Store) error {
		var err error
		out, err = ensureDefaultSchedule(st, userID)
		return err
	})
	return out, err
}

func ensureDefaultSchedule(st Store, userID string) (*models.Schedule, error) {
	schedules, err := st.ListSchedules(userID)
	if err != nil {
		return nil, err
	}

	if len(schedules) == 0 {
		return createBaselineSchedule(st, userID)
	}

	var defaults []*models.Schedule
	for i := range schedules {
		if schedules[i].IsDefault {
			defaults = append(defaults, &schedules[i])
		}
	}

	switch {
	case len(defaults) == 1:
		return defaults[0], nil

	case len(defaults) == 0:
		// Promote the most recently updated active schedule. ListSchedules
		// already orders by updated_at descending.
		for i := range schedules {
			if schedules[i].IsActive {
				if err := st.ClearOtherDefaults(userID, schedules[i].ID); err != nil {
					return nil, err
				}
				if err := st.UpdateSchedule(schedules[i].ID, map[string]any{"is_default": true}); err != nil {
					return nil, err
				}
				schedules[i].IsDefault = true
				return &schedules[i], nil
			}
		}
		return createBaselineSchedule(st, userID)

	default:
		// Inconsistent state: keep the most recently updated default.
		keep := defaults[0]
		if err := st.ClearOtherDefaults(userID, keep.ID); err != nil {
			return nil, err
		}
		return keep, nil
	}
}

func createBaselineSchedule(st Store, userID string) (*models.Schedule, error) {
	templates, err := ensureDefaultTemplates(st, userID)
	if err != nil {
		return nil, err
	}

	sched := models.Schedule{
		UserID:    userID,
		Name:      DefaultScheduleName,
		IsActive:  true,
		IsDefault: true,
	}
	for i, offset := range defaultStepOffsets {
		sched.Steps = append(sched.Steps, models.ScheduleStep{
			DayOffset:  offset,
			StepOrder:  i + 1,
			TemplateID: templates[i].ID,
			Template:   templates[i],
		})
	}
	if err := st.CreateSchedule(&sched); err != nil {
		return nil, fmt.Errorf("create default schedule: %w", err)
	}
	return &sched, nil
}
