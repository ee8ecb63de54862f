package mailer

import (
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"gorm.io/gorm"
)

// Store is the storage surface the dispatcher needs: due-row discovery,
// SENT/FAILED transitions, EmailLog writes and invoice bookkeeping.
type Store interface {
	Transaction(fn func(Store) error) error
	// ListDueFollowUps returns PENDING follow-ups scheduled at or before now
	// whose invoice is still PENDING with reminders enabled, oldest first.
	ListDueFollowUps(now time.Time) ([]models.FollowUp, error)
	GetInvoice(id uint) (*models.Invoice, error)
	UpdateFollowUp(id uint, fields map[string]any) error
	CountPendingFollowUps(invoiceID uint) (int64, error)
	UpdateInvoice(id uint, fields map[string]any) error
	CreateEmailLog(entry *models.EmailLog) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (g *gormStore) Transaction(fn func(Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (g *gormStore) ListDueFollowUps(now time.Time) ([]models.FollowUp, error) {
	var due []models.FollowUp
	err := g.db.
		Joins("JOIN invoices ON invoices.id = follow_ups.invoice_id").
		Where("follow_ups.status = ?", models.FollowUpStatusPending).
		Where("follow_ups.scheduled_date <= ?", now).
		Where("invoices.status = ?", models.InvoiceStatusPending).
		Where("invoices.reminders_enabled = ?", true).
		Order("follow_ups.scheduled_date ASC").
		Find(&due).Error
	return due, err
}

func (g *gormStore) GetInvoice(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := g.db.First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (g *gormStore) UpdateFollowUp(id uint, fields map[string]any) error {
	return g.db.Model(&models.FollowUp{}).Where("id = ?", id).Updates(fields).Error
}

func (g *gormStore) CountPendingFollowUps(invoiceID uint) (int64, error) {
	var n int64
	err := g.db.Model(&models.FollowUp{}).
		Where("invoice_id = ? AND status = ?", invoiceID, models.FollowUpStatusPending).
		Count(&n).Error
	return n, err
}

func (g *gormStore) UpdateInvoice(id uint, fields map[string]any) error {
	return g.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(fields).Error
}

func (g *gormStore) CreateEmailLog(entry *models.EmailLog) error {
	return g.db.Create(entry).Error
}
