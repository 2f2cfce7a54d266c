package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository/repotest"
)

func newTestService(t *testing.T) (*Service, *repotest.AppointmentRepo, *repotest.StaffRepo, *repotest.CapabilityRepo) {
	t.Helper()
	apptRepo := repotest.NewAppointmentRepo()
	staffRepo := repotest.NewStaffRepo()
	capRepo := repotest.NewCapabilityRepo(staffRepo)
	return NewService(apptRepo, capRepo, time.Minute), apptRepo, staffRepo, capRepo
}

func addStaff(t *testing.T, staffRepo *repotest.StaffRepo, active bool) *model.StaffMember {
	t.Helper()
	staff := &model.StaffMember{ID: uuid.New(), Name: "Ana", Active: active}
	require.NoError(t, staffRepo.Create(context.Background(), staff))
	return staff
}

func TestListTimeSlots(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	slots := svc.ListTimeSlots()
	require.Len(t, slots, 21)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "08:30", slots[1])
	assert.Equal(t, "18:00", slots[len(slots)-1])
}

func TestInGrid(t *testing.T) {
	assert.True(t, InGrid("08:00"))
	assert.True(t, InGrid("12:30"))
	assert.True(t, InGrid("18:00"))
	assert.False(t, InGrid("07:30"))
	assert.False(t, InGrid("18:30"))
	assert.False(t, InGrid("08:15"))
	assert.False(t, InGrid("23:59"))
	assert.False(t, InGrid(""))
}

func TestIsSlotFree(t *testing.T) {
	svc, apptRepo, staffRepo, _ := newTestService(t)
	ctx := context.Background()
	staff := addStaff(t, staffRepo, true)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	free, err := svc.IsSlotFree(ctx, staff.ID, date, "10:00")
	require.NoError(t, err)
	assert.True(t, free)

	clientID := uuid.New()
	apt := &model.Appointment{
		ID:        uuid.New(),
		ClientID:  &clientID,
		ServiceID: uuid.New(),
		StaffID:   &staff.ID,
		Date:      date,
		SlotTime:  "10:00",
		Status:    model.StatusAgendado,
	}
	require.NoError(t, apptRepo.Create(ctx, apt))

	free, err = svc.IsSlotFree(ctx, staff.ID, date, "10:00")
	require.NoError(t, err)
	assert.False(t, free)

	// Cancelling the holder releases the slot.
	apt.Status = model.StatusCancelado
	require.NoError(t, apptRepo.Update(ctx, apt))

	free, err = svc.IsSlotFree(ctx, staff.ID, date, "10:00")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestListFreeSlots(t *testing.T) {
	svc, apptRepo, staffRepo, _ := newTestService(t)
	ctx := context.Background()
	staff := addStaff(t, staffRepo, true)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	clientID := uuid.New()
	require.NoError(t, apptRepo.Create(ctx, &model.Appointment{
		ID:        uuid.New(),
		ClientID:  &clientID,
		ServiceID: uuid.New(),
		StaffID:   &staff.ID,
		Date:      date,
		SlotTime:  "09:00",
		Status:    model.StatusConfirmado,
	}))

	free, err := svc.ListFreeSlots(ctx, staff.ID, date)
	require.NoError(t, err)
	assert.Len(t, free, 20)
	assert.NotContains(t, free, "09:00")
	assert.Contains(t, free, "08:00")
}

func TestListEligibleStaff(t *testing.T) {
	svc, _, staffRepo, capRepo := newTestService(t)
	ctx := context.Background()
	serviceID := uuid.New()
	locationID := uuid.New()

	active := addStaff(t, staffRepo, true)
	inactive := addStaff(t, staffRepo, false)
	for _, id := range []uuid.UUID{active.ID, inactive.ID} {
		require.NoError(t, capRepo.Create(ctx, &model.Capability{
			StaffID: id, ServiceID: serviceID, LocationID: locationID,
		}))
	}

	staff, err := svc.ListEligibleStaff(ctx, serviceID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, active.ID, staff[0].ID)
}

func TestListEligibleStaffUnknownService(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	staff, err := svc.ListEligibleStaff(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, staff)
}

func TestListEligibleStaffCaching(t *testing.T) {
	svc, _, staffRepo, capRepo := newTestService(t)
	ctx := context.Background()
	serviceID := uuid.New()

	first, err := svc.ListEligibleStaff(ctx, serviceID)
	require.NoError(t, err)
	assert.Empty(t, first)

	// A capability added behind the cache is invisible until
	// invalidation.
	staff := addStaff(t, staffRepo, true)
	require.NoError(t, capRepo.Create(ctx, &model.Capability{
		StaffID: staff.ID, ServiceID: serviceID, LocationID: uuid.New(),
	}))

	cached, err := svc.ListEligibleStaff(ctx, serviceID)
	require.NoError(t, err)
	assert.Empty(t, cached)

	svc.InvalidateEligibleStaff(serviceID)

	fresh, err := svc.ListEligibleStaff(ctx, serviceID)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, staff.ID, fresh[0].ID)
}
