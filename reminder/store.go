package reminder

import (
	"errors"

	"github.com/odilorg/invoiceflow-saas-sub000/models"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrScheduleInactive = errors.New("schedule is not active")
)

// Store is the persistence surface the reminder engine needs. The production
// implementation wraps a *gorm.DB (NewGormStore); tests substitute an
// in-memory fake.
//
// Transaction runs fn against a transaction-scoped Store and commits iff fn
// returns nil. All mutating engine entry points go through it; the
// transaction boundary is the only concurrency control in this package.
type Store interface {
	Transaction(fn func(Store) error) error

	GetInvoice(id uint) (*models.Invoice, error)
	ListPendingInvoiceIDs(userID string) ([]uint, error)
	UpdateInvoice(id uint, fields map[string]any) error

	// GetSchedule loads a schedule with its steps ordered by step order,
	// templates included.
	GetSchedule(id uint) (*models.Schedule, error)
	// GetOwnedActiveSchedule is GetSchedule restricted to schedules that
	// belong to userID and are active; ErrScheduleNotFound otherwise.
	GetOwnedActiveSchedule(id uint, userID string) (*models.Schedule, error)
	// ListSchedules returns the user's schedules, most recently updated
	// first, steps included.
	ListSchedules(userID string) ([]models.Schedule, error)
	CountSchedules(userID string) (int64, error)
	CreateSchedule(s *models.Schedule) error
	UpdateSchedule(id uint, fields map[string]any) error
	// ClearOtherDefaults unsets is_default on every schedule of the user
	// except keepID, without touching updated_at.
	ClearOtherDefaults(userID string, keepID uint) error

	ListTemplates(userID string) ([]models.Template, error)
	CreateTemplate(t *models.Template) error

	DeletePendingFollowUps(invoiceID uint) error
	CreateFollowUps(rows []models.FollowUp) error
	SkipPendingFollowUps(invoiceID uint) error
}

// Service bundles the follow-up engine behind an injected Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}
