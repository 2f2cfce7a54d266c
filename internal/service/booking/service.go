package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
	"github.com/agendahub/agenda-api/internal/service/availability"
	"github.com/agendahub/agenda-api/internal/service/notification"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/metrics"
)

type Service struct {
	repo         repository.AppointmentRepository
	clientRepo   repository.ClientRepository
	serviceRepo  repository.ServiceRepository
	capRepo      repository.CapabilityRepository
	availability *availability.Service
	notifier     notification.Notifier
	logger       *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	serviceRepo repository.ServiceRepository,
	capRepo repository.CapabilityRepository,
	availabilitySvc *availability.Service,
	notifier notification.Notifier,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		clientRepo:   clientRepo,
		serviceRepo:  serviceRepo,
		capRepo:      capRepo,
		availability: availabilitySvc,
		notifier:     notifier,
		logger:       logger,
	}
}

type CreateParams struct {
	ClientID  uuid.UUID
	ServiceID uuid.UUID
	StaffID   *uuid.UUID
	Date      time.Time
	SlotTime  string
	Notes     string
}

// Create books a new appointment with status AGENDADO. The slot check
// here is advisory: the store's unique constraint on active
// (staff, date, time) rows is what rejects a concurrent double booking,
// surfacing as a conflict.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Appointment, error) {
	if err := s.validateCreate(ctx, &p); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:        uuid.New(),
		ClientID:  &p.ClientID,
		ServiceID: p.ServiceID,
		StaffID:   p.StaffID,
		Date:      model.DateOnly(p.Date),
		SlotTime:  p.SlotTime,
		Status:    model.StatusAgendado,
		Notes:     p.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if apperrors.Is(err, apperrors.CodeConflict) {
			metrics.BookingConflicts.Inc()
			return nil, err
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	metrics.BookingsCreated.Inc()

	s.notifier.NotifyConfirmation(ctx, apt)

	return apt, nil
}

func (s *Service) validateCreate(ctx context.Context, p *CreateParams) error {
	if p.ClientID == uuid.Nil {
		return apperrors.Validation("client is required")
	}
	if p.ServiceID == uuid.Nil {
		return apperrors.Validation("service is required")
	}
	if p.SlotTime == "" {
		return apperrors.Validation("time slot is required")
	}
	if !availability.InGrid(p.SlotTime) {
		return apperrors.Validationf("time slot %q is not on the daily grid", p.SlotTime)
	}
	if p.Date.IsZero() {
		return apperrors.Validation("date is required")
	}
	if model.DateBefore(p.Date, time.Now()) {
		return apperrors.Validation("date cannot be in the past")
	}

	if _, err := s.clientRepo.Get(ctx, p.ClientID); err != nil {
		return err
	}
	if _, err := s.serviceRepo.Get(ctx, p.ServiceID); err != nil {
		return err
	}

	if p.StaffID != nil {
		if err := s.checkStaffSlot(ctx, *p.StaffID, p.ServiceID, p.Date, p.SlotTime); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkStaffSlot(ctx context.Context, staffID, serviceID uuid.UUID, date time.Time, slotTime string) error {
	has, err := s.capRepo.HasCapability(ctx, staffID, serviceID)
	if err != nil {
		return fmt.Errorf("failed to check capability: %w", err)
	}
	if !has {
		return apperrors.Validation("staff member is not qualified for this service")
	}

	free, err := s.availability.IsSlotFree(ctx, staffID, date, slotTime)
	if err != nil {
		return err
	}
	if !free {
		return apperrors.Conflict("slot no longer available")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Update persists mutated fields without re-running creation
// validation.
func (s *Service) Update(ctx context.Context, apt *model.Appointment) error {
	if err := s.repo.Update(ctx, apt); err != nil {
		return err
	}
	return nil
}

// Cancel sets status CANCELADO unconditionally and is idempotent,
// deliberately freeing the slot for reuse.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if apt.Status == model.StatusCancelado {
		return nil
	}

	apt.Status = model.StatusCancelado
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

// AssignStaff binds a staff member to an unassigned or reassigned
// appointment, subject to capability and slot availability.
func (s *Service) AssignStaff(ctx context.Context, id, staffID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkStaffSlot(ctx, staffID, apt.ServiceID, apt.Date, apt.SlotTime); err != nil {
		return nil, err
	}

	apt.StaffID = &staffID
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Purge physically removes a cancelled appointment. Administrative
// use only.
func (s *Service) Purge(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
