package reminder

import (
	"sort"
	"sync"
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/models"
)

// memStore is an in-memory Store fake. The clock advances one second per
// write so "most recently updated" ordering is deterministic in tests.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	clock     time.Time
	invoices  map[uint]*models.Invoice
	schedules map[uint]*models.Schedule
	templates map[uint]*models.Template
	followUps map[uint]*models.FollowUp
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		invoices:  make(map[uint]*models.Invoice),
		schedules: make(map[uint]*models.Schedule),
		templates: make(map[uint]*models.Template),
		followUps: make(map[uint]*models.FollowUp),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// Transaction is a no-op wrapper; the fake has no rollback semantics.
func (m *memStore) Transaction(fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) GetInvoice(id uint) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memStore) ListPendingInvoiceIDs(userID string) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for id, inv := range m.invoices {
		if inv.UserID == userID && inv.Status == models.InvoiceStatusPending {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) UpdateInvoice(id uint, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	for k, v := range fields {
		switch k {
		case "total_scheduled_reminders":
			inv.TotalScheduledReminders = v.(int)
		case "reminders_completed":
			inv.RemindersCompleted = v.(bool)
		}
	}
	return nil
}

func (m *memStore) scheduleCopy(s *models.Schedule) *models.Schedule {
	cp := *s
	cp.Steps = make([]models.ScheduleStep, len(s.Steps))
	copy(cp.Steps, s.Steps)
	sort.Slice(cp.Steps, func(i, j int) bool { return cp.Steps[i].StepOrder < cp.Steps[j].StepOrder })
	for i := range cp.Steps {
		if t, ok := m.templates[cp.Steps[i].TemplateID]; ok {
			cp.Steps[i].Template = *t
		}
	}
	return &cp
}

func (m *memStore) GetSchedule(id uint) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return m.scheduleCopy(s), nil
}

func (m *memStore) GetOwnedActiveSchedule(id uint, userID string) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok || s.UserID != userID || !s.IsActive {
		return nil, ErrScheduleNotFound
	}
	return m.scheduleCopy(s), nil
}

func (m *memStore) ListSchedules(userID string) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.UserID == userID {
			out = append(out, *m.scheduleCopy(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) CountSchedules(userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.schedules {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateSchedule(s *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	s.UpdatedAt = m.tick()
	for i := range s.Steps {
		s.Steps[i].ID = m.id()
		s.Steps[i].ScheduleID = s.ID
	}
	cp := *s
	cp.Steps = make([]models.ScheduleStep, len(s.Steps))
	copy(cp.Steps, s.Steps)
	m.schedules[s.ID] = &cp
	return nil
}

func (m *memStore) UpdateSchedule(id uint, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return ErrScheduleNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			s.Name = v.(string)
		case "is_active":
			s.IsActive = v.(bool)
		case "is_default":
			s.IsDefault = v.(bool)
		}
	}
	s.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) ClearOtherDefaults(userID string, keepID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.schedules {
		if s.UserID == userID && s.ID != keepID {
			s.IsDefault = false
		}
	}
	return nil
}

func (m *memStore) ListTemplates(userID string) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Template
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateTemplate(t *models.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memStore) DeletePendingFollowUps(invoiceID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, fu := range m.followUps {
		if fu.InvoiceID == invoiceID && fu.Status == models.FollowUpStatusPending {
			delete(m.followUps, id)
		}
	}
	return nil
}

func (m *memStore) CreateFollowUps(rows []models.FollowUp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range rows {
		rows[i].ID = m.id()
		cp := rows[i]
		m.followUps[cp.ID] = &cp
	}
	return nil
}

func (m *memStore) SkipPendingFollowUps(invoiceID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fu := range m.followUps {
		if fu.InvoiceID == invoiceID && fu.Status == models.FollowUpStatusPending {
			fu.Status = models.FollowUpStatusSkipped
		}
	}
	return nil
}

// --- test seeding helpers ---

func (m *memStore) addInvoice(inv models.Invoice) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = m.id()
	m.invoices[inv.ID] = &inv
	return inv.ID
}

func (m *memStore) addFollowUp(fu models.FollowUp) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	fu.ID = m.id()
	m.followUps[fu.ID] = &fu
	return fu.ID
}

func (m *memStore) followUpsForInvoice(invoiceID uint) []models.FollowUp {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FollowUp
	for _, fu := range m.followUps {
		if fu.InvoiceID == invoiceID {
			out = append(out, *fu)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out
}

func (m *memStore) defaultSchedules(userID string) []models.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.UserID == userID && s.IsDefault {
			out = append(out, *s)
		}
	}
	return out
}
