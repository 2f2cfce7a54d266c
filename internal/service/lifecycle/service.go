package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/internal/broadcast"
	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
	"github.com/agendahub/agenda-api/internal/service/queue"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/metrics"
)

// Service governs appointment status transitions. Queue broadcasts are
// side effects of successful transitions and are best-effort: a sink
// failure never fails the transition.
type Service struct {
	repo       repository.AppointmentRepository
	clientRepo repository.ClientRepository
	capRepo    repository.CapabilityRepository
	locRepo    repository.LocationRepository
	queueSvc   *queue.Service
	sink       broadcast.Sink
	logger     *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	capRepo repository.CapabilityRepository,
	locRepo repository.LocationRepository,
	queueSvc *queue.Service,
	sink broadcast.Sink,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		clientRepo: clientRepo,
		capRepo:    capRepo,
		locRepo:    locRepo,
		queueSvc:   queueSvc,
		sink:       sink,
		logger:     logger,
	}
}

// Start begins service for an appointment, moving it to
// EM_ATENDIMENTO and announcing the call on the display panel.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.ChangeStatus(ctx, id, model.StatusEmAtendimento)
}

// Finish concludes an in-service appointment.
func (s *Service) Finish(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.ChangeStatus(ctx, id, model.StatusConcluido)
}

// Confirm marks a scheduled appointment as confirmed by the client.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.ChangeStatus(ctx, id, model.StatusConfirmado)
}

// MarkNoShow flags a client who never arrived.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.ChangeStatus(ctx, id, model.StatusNaoCompareceu)
}

// ChangeStatus is the general transition entry point. Requesting the
// current status is a silent no-op with no persistence write and no
// broadcast, even when that status is terminal; the terminal check
// applies only to genuine moves.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (*model.Appointment, error) {
	if !next.Valid() {
		return nil, apperrors.Validationf("unknown status %q", next)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status == next {
		return apt, nil
	}

	if apt.Status.IsTerminal() {
		return nil, apperrors.DomainRule(fmt.Sprintf(
			"appointment is %s; no further transitions permitted", apt.Status.Label()))
	}
	if !apt.Status.CanTransitionTo(next) {
		return nil, apperrors.DomainRule(fmt.Sprintf(
			"cannot move appointment from %s to %s", apt.Status.Label(), next.Label()))
	}

	prev := apt.Status
	apt.Status = next
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(prev), string(next)).Inc()

	s.broadcast(ctx, apt, next)

	return apt, nil
}

// broadcast pushes queue-state changes to the display sink. Every
// transition changes today's queue composition, so the queue length is
// always re-announced; entering service additionally announces the
// call itself.
func (s *Service) broadcast(ctx context.Context, apt *model.Appointment, next model.Status) {
	length, err := s.queueSvc.WaitingCount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("queue length unavailable for broadcast")
		length = 0
	}

	if next == model.StatusEmAtendimento {
		s.sink.PublishCall(ctx, s.displayName(ctx, apt), s.locationName(ctx, apt), length)
		return
	}
	s.sink.PublishQueueLength(ctx, length)
}

func (s *Service) displayName(ctx context.Context, apt *model.Appointment) string {
	if apt.IsWalkin() {
		return *apt.WalkinName
	}
	if apt.ClientID == nil {
		return ""
	}
	client, err := s.clientRepo.Get(ctx, *apt.ClientID)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("client name unavailable for call")
		return ""
	}
	return client.Name
}

// locationName resolves the site of the call through the staff
// member's capability for the appointment's service; the appointment
// itself does not store a location.
func (s *Service) locationName(ctx context.Context, apt *model.Appointment) string {
	if apt.StaffID == nil {
		return ""
	}
	caps, err := s.capRepo.ListForStaff(ctx, *apt.StaffID)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("staff_id", *apt.StaffID).Msg("capabilities unavailable for call")
		return ""
	}
	for _, c := range caps {
		if c.ServiceID != apt.ServiceID {
			continue
		}
		loc, err := s.locRepo.Get(ctx, c.LocationID)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("location_id", c.LocationID).Msg("location unavailable for call")
			return ""
		}
		return loc.Name
	}
	return ""
}
