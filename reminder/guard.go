package reminder

import (
	"errors"

	"github.com/odilorg/invoiceflow-saas-sub000/models"
)

// Decision is a structured allow/deny answer for a guarded mutation.
// The reason is user-facing.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Allowed: false, Reason: r} }

// CanDeleteSchedule checks whether the schedule may be deleted. Deletion is
// denied for the user's only schedule and for the default among several.
// Business conditions come back as decisions, never as errors; the error
// return is for store failures only.
func (s *Service) CanDeleteSchedule(scheduleID uint, userID string) (Decision, error) {
	sched, err := s.store.GetSchedule(scheduleID)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return deny("schedule not found"), nil
		}
		return Decision{}, err
	}
	if sched.UserID != userID {
		return deny("schedule not found"), nil
	}

	count, err := s.store.CountSchedules(userID)
	if err != nil {
		return Decision{}, err
	}
	if count <= 1 {
		return deny("cannot delete the only schedule"), nil
	}
	if sched.IsDefault {
		return deny("cannot delete the default schedule; set another schedule as default first"), nil
	}
	return allow(), nil
}

// CanDeactivateSchedule checks whether the schedule may be deactivated.
// The default schedule must stay active; everything else may be deactivated.
func (s *Service) CanDeactivateSchedule(scheduleID uint, userID string) (Decision, error) {
	sched, err := s.store.GetSchedule(scheduleID)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return deny("schedule not found"), nil
		}
		return Decision{}, err
	}
	if sched.UserID != userID {
		return deny("schedule not found"), nil
	}
	if sched.IsDefault {
		return deny("cannot deactivate the default schedule; set another schedule as default first"), nil
	}
	return allow(), nil
}

// SetScheduleAsDefault atomically makes the schedule the user's default,
// unsetting every other default the user may have. The schedule must belong
// to the user and be active. This is the only sanctioned way to move the
// default flag.
func (s *Service) SetScheduleAsDefault(scheduleID uint, userID string) (*models.Schedule, error) {
	var out *models.Schedule
	err := s.store.Transaction(func(st Store) error {
		sched, err := st.GetSchedule(scheduleID)
		if err != nil {
			return err
		}
		if sched.UserID != userID {
			return ErrScheduleNotFound
		}
		if !sched.IsActive {
			return ErrScheduleInactive
		}
		if err := st.ClearOtherDefaults(userID, sched.ID); err != nil {
			return err
		}
		if !sched.IsDefault {
			if err := st.UpdateSchedule(sched.ID, map[string]any{"is_default": true}); err != nil {
				return err
			}
			sched.IsDefault = true
		}
		out = sched
		return nil
	})
	return out, err
}
