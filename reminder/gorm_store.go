package reminder

import (
	"errors"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore adapts a *gorm.DB (typically the per-request transaction) to
// the engine's Store interface.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (g *gormStore) Transaction(fn func(Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (g *gormStore) GetInvoice(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := g.db.First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (g *gormStore) ListPendingInvoiceIDs(userID string) ([]uint, error) {
	var ids []uint
	err := g.db.Model(&models.Invoice{}).
		Where("user_id = ? AND status = ?", userID, models.InvoiceStatusPending).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (g *gormStore) UpdateInvoice(id uint, fields map[string]any) error {
	return g.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(fields).Error
}

func (g *gormStore) scheduleQuery() *gorm.DB {
	return g.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Steps.Template")
}

func (g *gormStore) GetSchedule(id uint) (*models.Schedule, error) {
	var sched models.Schedule
	if err := g.scheduleQuery().First(&sched, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (g *gormStore) GetOwnedActiveSchedule(id uint, userID string) (*models.Schedule, error) {
	var sched models.Schedule
	err := g.scheduleQuery().
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&sched, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (g *gormStore) ListSchedules(userID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := g.scheduleQuery().
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&schedules).Error
	return schedules, err
}

func (g *gormStore) CountSchedules(userID string) (int64, error) {
	var n int64
	err := g.db.Model(&models.Schedule{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (g *gormStore) CreateSchedule(s *models.Schedule) error {
	return g.db.Create(s).Error
}

func (g *gormStore) UpdateSchedule(id uint, fields map[string]any) error {
	return g.db.Model(&models.Schedule{}).Where("id = ?", id).Updates(fields).Error
}

func (g *gormStore) ClearOtherDefaults(userID string, keepID uint) error {
	return g.db.Model(&models.Schedule{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		UpdateColumn("is_default", false).Error
}

func (g *gormStore) ListTemplates(userID string) ([]models.Template, error) {
	var templates []models.Template
	err := g.db.Where("user_id = ?", userID).Order("id ASC").Find(&templates).Error
	return templates, err
}

func (g *gormStore) CreateTemplate(t *models.Template) error {
	return g.db.Create(t).Error
}

func (g *gormStore) DeletePendingFollowUps(invoiceID uint) error {
	return g.db.
		Where("invoice_id = ? AND status = ?", invoiceID, models.FollowUpStatusPending).
		Delete(&models.FollowUp{}).Error
}

func (g *gormStore) CreateFollowUps(rows []models.FollowUp) error {
	if len(rows) == 0 {
		return nil
	}
	return g.db.Create(&rows).Error
}

func (g *gormStore) SkipPendingFollowUps(invoiceID uint) error {
	return g.db.Model(&models.FollowUp{}).
		Where("invoice_id = ? AND status = ?", invoiceID, models.FollowUpStatusPending).
		Update("status", models.FollowUpStatusSkipped).Error
}
