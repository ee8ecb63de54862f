package reminder

import (
	"testing"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanDeleteScheduleDeniesOnlySchedule(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	only := models.Schedule{UserID: testUser, Name: "Only", IsActive: true, IsDefault: true}
	require.NoError(t, store.CreateSchedule(&only))

	dec, err := svc.CanDeleteSchedule(only.ID, testUser)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "only schedule")
}

func TestCanDeleteScheduleDeniesDefaultAmongSeveral(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	def := models.Schedule{UserID: testUser, Name: "Default", IsActive: true, IsDefault: true}
	require.NoError(t, store.CreateSchedule(&def))
	other := models.Schedule{UserID: testUser, Name: "Other", IsActive: true}
	require.NoError(t, store.CreateSchedule(&other))

	dec, err := svc.CanDeleteSchedule(def.ID, testUser)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "default")

	dec, err = svc.CanDeleteSchedule(other.ID, testUser)
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	assert.Empty(t, dec.Reason)
}

func TestCanDeleteScheduleHidesForeignSchedules(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	theirs := models.Schedule{UserID: "someone-else", Name: "Theirs", IsActive: true}
	require.NoError(t, store.CreateSchedule(&theirs))

	dec, err := svc.CanDeleteSchedule(theirs.ID, testUser)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, "schedule not found", dec.Reason)

	dec, err = svc.CanDeleteSchedule(9999, testUser)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, "schedule not found", dec.Reason)
}

func TestCanDeactivateSchedule(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	def := models.Schedule{UserID: testUser, Name: "Default", IsActive: true, IsDefault: true}
	require.NoError(t, store.CreateSchedule(&def))
	other := models.Schedule{UserID: testUser, Name: "Other", IsActive: true}
	require.NoError(t, store.CreateSchedule(&other))

	dec, err := svc.CanDeactivateSchedule(def.ID, testUser)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "default")

	dec, err = svc.CanDeactivateSchedule(other.ID, testUser)
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}

func TestSetScheduleAsDefaultMovesTheFlag(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	a := models.Schedule{UserID: testUser, Name: "A", IsActive: true, IsDefault: true}
	require.NoError(t, store.CreateSchedule(&a))
	b := models.Schedule{UserID: testUser, Name: "B", IsActive: true}
	require.NoError(t, store.CreateSchedule(&b))

	out, err := svc.SetScheduleAsDefault(b.ID, testUser)
	require.NoError(t, err)
	assert.True(t, out.IsDefault)

	defaults := store.defaultSchedules(testUser)
	require.Len(t, defaults, 1)
	assert.Equal(t, b.ID, defaults[0].ID)
}

func TestSetScheduleAsDefaultRejectsInactive(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	inactive := models.Schedule{UserID: testUser, Name: "Retired", IsActive: false}
	require.NoError(t, store.CreateSchedule(&inactive))

	_, err := svc.SetScheduleAsDefault(inactive.ID, testUser)
	assert.ErrorIs(t, err, ErrScheduleInactive)
}

func TestSetScheduleAsDefaultRejectsForeignOwner(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	theirs := models.Schedule{UserID: "someone-else", Name: "Theirs", IsActive: true}
	require.NoError(t, store.CreateSchedule(&theirs))

	_, err := svc.SetScheduleAsDefault(theirs.ID, testUser)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
