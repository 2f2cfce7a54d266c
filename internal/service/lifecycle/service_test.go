package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository/repotest"
	"github.com/agendahub/agenda-api/internal/service/queue"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

type recordedCall struct {
	displayName  string
	locationName string
	queueLength  int
}

type recordingSink struct {
	calls        []recordedCall
	queueLengths []int
}

func (s *recordingSink) PublishCall(_ context.Context, displayName, locationName string, queueLength int) {
	s.calls = append(s.calls, recordedCall{displayName, locationName, queueLength})
}

func (s *recordingSink) PublishQueueLength(_ context.Context, queueLength int) {
	s.queueLengths = append(s.queueLengths, queueLength)
}

func (s *recordingSink) Start() error { return nil }
func (s *recordingSink) Stop() error  { return nil }

type fixture struct {
	svc      *Service
	sink     *recordingSink
	apptRepo *repotest.AppointmentRepo

	client   *model.Client
	staff    *model.StaffMember
	service  uuid.UUID
	location *model.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	apptRepo := repotest.NewAppointmentRepo()
	clientRepo := repotest.NewClientRepo()
	staffRepo := repotest.NewStaffRepo()
	capRepo := repotest.NewCapabilityRepo(staffRepo)
	locRepo := repotest.NewLocationRepo()
	queueSvc := queue.NewService(apptRepo)
	sink := &recordingSink{}
	logger := zerolog.Nop()

	client := &model.Client{ID: uuid.New(), Name: "Maria Silva"}
	require.NoError(t, clientRepo.Create(ctx, client))

	staff := &model.StaffMember{ID: uuid.New(), Name: "Ana", Active: true}
	require.NoError(t, staffRepo.Create(ctx, staff))

	location := &model.Location{ID: uuid.New(), Name: "Sala 2"}
	locRepo.Add(location)

	serviceID := uuid.New()
	require.NoError(t, capRepo.Create(ctx, &model.Capability{
		StaffID: staff.ID, ServiceID: serviceID, LocationID: location.ID,
	}))

	svc := NewService(apptRepo, clientRepo, capRepo, locRepo, queueSvc, sink, &logger)
	return &fixture{
		svc:      svc,
		sink:     sink,
		apptRepo: apptRepo,
		client:   client,
		staff:    staff,
		service:  serviceID,
		location: location,
	}
}

func (f *fixture) seed(t *testing.T, status model.Status) *model.Appointment {
	return f.seedAt(t, status, "10:00")
}

func (f *fixture) seedAt(t *testing.T, status model.Status, slot string) *model.Appointment {
	t.Helper()
	apt := &model.Appointment{
		ID:        uuid.New(),
		ClientID:  &f.client.ID,
		ServiceID: f.service,
		StaffID:   &f.staff.ID,
		Date:      model.DateOnly(time.Now()),
		SlotTime:  slot,
		Status:    status,
	}
	require.NoError(t, f.apptRepo.Create(context.Background(), apt))
	return apt
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusAgendado)

	got, err := f.svc.Confirm(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmado, got.Status)
}

func TestStartAnnouncesCall(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusConfirmado)

	got, err := f.svc.Start(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEmAtendimento, got.Status)

	require.Len(t, f.sink.calls, 1)
	assert.Equal(t, "Maria Silva", f.sink.calls[0].displayName)
	assert.Equal(t, "Sala 2", f.sink.calls[0].locationName)
	assert.Equal(t, 0, f.sink.calls[0].queueLength)
	assert.Empty(t, f.sink.queueLengths)
}

func TestStartWalkinAnnouncesWalkinName(t *testing.T) {
	f := newFixture(t)
	name := "João Souza"
	cpf := "52998224725"
	phone := "11999990000"
	apt := &model.Appointment{
		ID:          uuid.New(),
		WalkinName:  &name,
		WalkinCPF:   &cpf,
		WalkinPhone: &phone,
		ServiceID:   f.service,
		StaffID:     &f.staff.ID,
		Date:        model.DateOnly(time.Now()),
		SlotTime:    "23:59",
		Status:      model.StatusAgendado,
	}
	require.NoError(t, f.apptRepo.Create(context.Background(), apt))

	_, err := f.svc.Start(context.Background(), apt.ID)
	require.NoError(t, err)

	require.Len(t, f.sink.calls, 1)
	assert.Equal(t, "João Souza", f.sink.calls[0].displayName)
}

func TestFinish(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusEmAtendimento)

	got, err := f.svc.Finish(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConcluido, got.Status)

	// Concluding is not a call, only a queue-length update.
	assert.Empty(t, f.sink.calls)
	assert.Equal(t, []int{0}, f.sink.queueLengths)
}

func TestCancelBroadcastsQueueLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt := f.seedAt(t, model.StatusAgendado, "10:00")
	f.seedAt(t, model.StatusConfirmado, "10:30")

	got, err := f.svc.ChangeStatus(ctx, apt.ID, model.StatusCancelado)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelado, got.Status)

	// Cancelling shrinks the waiting list; the display hears the new
	// length even though nobody was called.
	assert.Empty(t, f.sink.calls)
	assert.Equal(t, []int{1}, f.sink.queueLengths)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusAgendado)

	got, err := f.svc.MarkNoShow(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNaoCompareceu, got.Status)
}

func TestChangeStatusNoOp(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusConfirmado)

	got, err := f.svc.ChangeStatus(context.Background(), apt.ID, model.StatusConfirmado)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmado, got.Status)

	// A no-op neither persists nor broadcasts.
	assert.Empty(t, f.sink.calls)
	assert.Empty(t, f.sink.queueLengths)

	stored, err := f.apptRepo.Get(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.UpdatedAt, stored.UpdatedAt)
}

func TestChangeStatusTerminalNoOp(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusCancelado)

	// Re-requesting a terminal status is the same silent no-op as any
	// other repeat, which keeps the cancel endpoint idempotent.
	got, err := f.svc.ChangeStatus(context.Background(), apt.ID, model.StatusCancelado)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelado, got.Status)
	assert.Empty(t, f.sink.calls)
	assert.Empty(t, f.sink.queueLengths)
}

func TestChangeStatusIllegal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		from model.Status
		to   model.Status
	}{
		{"in service cannot revert to scheduled", model.StatusEmAtendimento, model.StatusAgendado},
		{"scheduled cannot conclude directly", model.StatusAgendado, model.StatusConcluido},
		{"confirmed cannot revert", model.StatusConfirmado, model.StatusAgendado},
	}

	slots := []string{"10:00", "10:30", "11:00"}
	for i, tt := range tests {
		tt := tt
		slot := slots[i]
		t.Run(tt.name, func(t *testing.T) {
			apt := f.seedAt(t, tt.from, slot)
			_, err := f.svc.ChangeStatus(ctx, apt.ID, tt.to)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeDomainRule), "got code %s", apperrors.CodeOf(err))

			stored, err := f.apptRepo.Get(ctx, apt.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, stored.Status)
		})
	}
}

func TestChangeStatusTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots := []string{"14:00", "14:30", "15:00"}
	for i, terminal := range []model.Status{model.StatusConcluido, model.StatusCancelado, model.StatusNaoCompareceu} {
		apt := f.seedAt(t, terminal, slots[i])
		_, err := f.svc.ChangeStatus(ctx, apt.ID, model.StatusEmAtendimento)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeDomainRule))
	}
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	f := newFixture(t)
	apt := f.seed(t, model.StatusAgendado)

	_, err := f.svc.ChangeStatus(context.Background(), apt.ID, model.Status("PENDENTE"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestChangeStatusUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), model.StatusConfirmado)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestQueueLengthReflectsWaiting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two waiting today; starting one leaves one in the queue.
	first := f.seedAt(t, model.StatusAgendado, "10:00")
	f.seedAt(t, model.StatusConfirmado, "10:30")

	_, err := f.svc.Start(ctx, first.ID)
	require.NoError(t, err)

	require.Len(t, f.sink.calls, 1)
	assert.Equal(t, 1, f.sink.calls[0].queueLength)
}
