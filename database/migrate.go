package database

import (
	"fmt"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"gorm.io/gorm"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Money column type (NUMERIC(12,2))
// - Indexes, including the partial unique index that backs the
//   one-default-schedule-per-user invariant
// - Foreign key: follow_ups.invoice_id → invoices.id (CASCADE)
// - Basic CHECK constraints
//
// Note: schedule_steps.template_id deliberately has no RESTRICT constraint;
// deleting a template that steps still reference is surfaced as a warning in
// the template controller, not blocked by the store.
func AutoMigrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Template{},
			&models.Schedule{},
			&models.ScheduleStep{},
			&models.Invoice{},
			&models.FollowUp{},
			&models.EmailLog{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money column as NUMERIC(12,2) (idempotent ALTER) ---
		if err := tx.Exec(`ALTER TABLE invoices ALTER COLUMN amount TYPE numeric(12,2)`).Error; err != nil {
			return fmt.Errorf("money type migration failed: %w", err)
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			// Second line of defense behind the self-healing default-schedule
			// invariant: at most one default row per user can ever persist.
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_user_default ON schedules (user_id) WHERE is_default`,
			`CREATE INDEX IF NOT EXISTS idx_follow_ups_due ON follow_ups (status, scheduled_date)`,
			`CREATE INDEX IF NOT EXISTS idx_schedule_steps_schedule_order ON schedule_steps (schedule_id, step_order)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign key: follow_ups.invoice_id -> invoices.id (CASCADE) ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'follow_ups'::regclass
		  AND conname  = 'fk_follow_ups_invoice'
	) THEN
		ALTER TABLE follow_ups
		ADD CONSTRAINT fk_follow_ups_invoice
		FOREIGN KEY (invoice_id)
		REFERENCES invoices(id)
		ON UPDATE RESTRICT
		ON DELETE CASCADE;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Positive invoice amount
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_amount_positive'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// Known invoice statuses only
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_status'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_status
					CHECK (status IN ('PENDING','PAID','OVERDUE','CANCELLED'));
				END IF;
			END $$;`,
			// Known follow-up statuses only
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'follow_ups'::regclass
					  AND conname  = 'chk_follow_ups_status'
				) THEN
					ALTER TABLE follow_ups
					ADD CONSTRAINT chk_follow_ups_status
					CHECK (status IN ('PENDING','SENT','SKIPPED','FAILED'));
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on: %s - %w", stmt, err)
			}
		}

		return nil
	})
}
