package mailer

import (
	"log"
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Dispatcher consumes due PENDING follow-ups and turns them into actual
// emails: SENT/FAILED transitions on the follow-up rows, an EmailLog entry
// per attempt, and reminder bookkeeping on the invoice. It is the only
// writer of SENT/FAILED states.
type Dispatcher struct {
	store  Store
	sender Sender
	cron   *cron.Cron
}

func NewDispatcher(db *gorm.DB, sender Sender) *Dispatcher {
	return &Dispatcher{store: NewGormStore(db), sender: sender, cron: cron.New()}
}

// Start schedules a due-check every minute.
func (d *Dispatcher) Start() error {
	if _, err := d.cron.AddFunc("* * * * *", func() { d.DispatchDue(time.Now().UTC()) }); err != nil {
		return err
	}
	d.cron.Start()
	log.Println("mailer: dispatcher started (checking every minute)")
	return nil
}

func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	log.Println("mailer: dispatcher stopped")
}

// DispatchDue sends every follow-up that is due at the given instant.
// Follow-ups whose invoice has left PENDING or has reminders paused are
// left alone; the regeneration/skip paths own those.
func (d *Dispatcher) DispatchDue(now time.Time) {
	due, err := d.store.ListDueFollowUps(now)
	if err != nil {
		log.Printf("mailer: due query failed: %v", err)
		return
	}

	for i := range due {
		if err := d.deliver(&due[i], now); err != nil {
			log.Printf("mailer: follow-up %d: %v", due[i].ID, err)
		}
	}
}

func (d *Dispatcher) deliver(fu *models.FollowUp, now time.Time) error {
	inv, err := d.store.GetInvoice(fu.InvoiceID)
	if err != nil {
		return err
	}
	// The invoice can change between the due query and delivery.
	if inv.Terminal() || !inv.RemindersEnabled {
		return nil
	}

	sendErr := d.sender.Send(inv.ClientEmail, fu.Subject, fu.Body)

	return d.store.Transaction(func(st Store) error {
		entry := models.EmailLog{
			UserID:    inv.UserID,
			InvoiceID: inv.ID,
			Recipient: inv.ClientEmail,
			Subject:   fu.Subject,
			SentAt:    now,
			Success:   sendErr == nil,
		}

		if sendErr != nil {
			entry.Error = sendErr.Error()
			if err := st.UpdateFollowUp(fu.ID, map[string]any{
				"status":        models.FollowUpStatusFailed,
				"error_message": sendErr.Error(),
			}); err != nil {
				return err
			}
			return st.CreateEmailLog(&entry)
		}

		if err := st.UpdateFollowUp(fu.ID, map[string]any{
			"status":  models.FollowUpStatusSent,
			"sent_at": now,
		}); err != nil {
			return err
		}

		invoiceUpdates := map[string]any{"last_reminder_sent_at": now}
		remaining, err := st.CountPendingFollowUps(inv.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			invoiceUpdates["reminders_completed"] = true
		}
		if err := st.UpdateInvoice(inv.ID, invoiceUpdates); err != nil {
			return err
		}

		return st.CreateEmailLog(&entry)
	})
}
