package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/models"
	"github.com/odilorg/invoiceflow-saas-sub000/utils"
)

// GenerateFollowUps (re)builds the pending reminder set for an invoice.
//
// Invoices whose status is not PENDING are skipped silently. The effective
// schedule is the explicit scheduleID if given, else the invoice's persisted
// assignment, else the user's default (bootstrapped on demand); an explicit
// or persisted schedule that is missing, inactive or owned by someone else
// also falls back to the default. Only PENDING follow-up rows are replaced;
// SENT/FAILED/SKIPPED rows are permanent history.
func (s *Service) GenerateFollowUps(invoiceID uint, scheduleID *uint) error {
	return s.store.Transaction(func(st Store) error {
		return generateFollowUps(st, invoiceID, scheduleID)
	})
}

// RegenerateFollowUpsForInvoice regenerates from the invoice's current
// schedule assignment.
func (s *Service) RegenerateFollowUpsForInvoice(invoiceID uint) error {
	return s.GenerateFollowUps(invoiceID, nil)
}

// RegenerateAllFollowUps regenerates every PENDING invoice the user owns,
// e.g. after the user edits a schedule's steps. Each invoice runs in its own
// transaction; failures are collected so one bad invoice cannot starve the
// rest.
func (s *Service) RegenerateAllFollowUps(userID string) error {
	ids, err := s.store.ListPendingInvoiceIDs(userID)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := s.GenerateFollowUps(id, nil); err != nil {
			log.Printf("reminder: regenerate invoice %d: %v", id, err)
			errs = append(errs, fmt.Errorf("invoice %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// SkipPendingFollowUps marks the invoice's pending reminders SKIPPED,
// preserving them as history. Called when an invoice leaves PENDING
// (paid or cancelled).
func (s *Service) SkipPendingFollowUps(invoiceID uint) error {
	return s.store.Transaction(func(st Store) error {
		return st.SkipPendingFollowUps(invoiceID)
	})
}

func generateFollowUps(st Store, invoiceID uint, scheduleID *uint) error {
	inv, err := st.GetInvoice(invoiceID)
	if err != nil {
		return err
	}
	if inv.Terminal() {
		log.Printf("reminder: invoice %d is %s, no follow-ups generated", inv.ID, inv.Status)
		return nil
	}

	sched, err := resolveSchedule(st, inv, scheduleID)
	if err != nil {
		return err
	}
	if len(sched.Steps) == 0 {
		log.Printf("reminder: schedule %d (%q) has no steps, aborting generation for invoice %d",
			sched.ID, sched.Name, inv.ID)
		return nil
	}

	if err := st.DeletePendingFollowUps(inv.ID); err != nil {
		return err
	}

	rows := make([]models.FollowUp, 0, len(sched.Steps))
	for _, step := range sched.Steps {
		date := offsetDueDate(inv.DueDate, step.DayOffset)
		vars := invoiceVariables(inv, step.DayOffset)
		snapshot, _ := json.Marshal(vars)
		rows = append(rows, models.FollowUp{
			InvoiceID:     inv.ID,
			TemplateID:    step.TemplateID,
			ScheduledDate: date,
			Subject:       Render(step.Template.Subject, vars),
			Body:          Render(step.Template.Body, vars),
			Variables:     snapshot,
			Status:        models.FollowUpStatusPending,
		})
	}
	if err := st.CreateFollowUps(rows); err != nil {
		return err
	}

	return st.UpdateInvoice(inv.ID, map[string]any{
		"total_scheduled_reminders": len(rows),
		"reminders_completed":       false,
	})
}

func resolveSchedule(st Store, inv *models.Invoice, scheduleID *uint) (*models.Schedule, error) {
	lookup := scheduleID
	if lookup == nil {
		lookup = inv.ScheduleID
	}
	if lookup != nil {
		sched, err := st.GetOwnedActiveSchedule(*lookup, inv.UserID)
		if err == nil {
			return sched, nil
		}
		if !errors.Is(err, ErrScheduleNotFound) {
			return nil, err
		}
		// Deleted, deactivated or foreign schedule: fall back to the default.
	}
	return ensureDefaultSchedule(st, inv.UserID)
}

// offsetDueDate shifts the due date by whole calendar days on a UTC-midnight
// anchor. Zeroing the time first keeps day offsets exact across DST
// transitions.
func offsetDueDate(due time.Time, days int) time.Time {
	y, m, d := due.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func invoiceVariables(inv *models.Invoice, dayOffset int) map[string]string {
	return map[string]string{
		"clientName":    inv.ClientName,
		"amount":        utils.FormatAmount(inv.Amount, inv.Currency),
		"currency":      inv.Currency,
		"dueDate":       offsetDueDate(inv.DueDate, 0).Format("January 2, 2006"),
		"invoiceNumber": inv.InvoiceNumber,
		"daysOverdue":   strconv.Itoa(max(dayOffset, 0)),
		"invoiceLink":   inv.Notes,
	}
}
