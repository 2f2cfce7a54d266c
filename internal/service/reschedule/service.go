package reschedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
	"github.com/agendahub/agenda-api/internal/service/availability"
	"github.com/agendahub/agenda-api/internal/service/booking"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/metrics"
)

// Service moves an existing appointment to a new staff/date/time by
// composing the booking engine: cancel the original where applicable,
// then create a successor carrying an audit trail in its notes. Steps
// are individually transactional; there is no cross-step rollback.
type Service struct {
	repo         repository.AppointmentRepository
	capRepo      repository.CapabilityRepository
	availability *availability.Service
	booking      *booking.Service
	logger       *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	capRepo repository.CapabilityRepository,
	availabilitySvc *availability.Service,
	bookingSvc *booking.Service,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		capRepo:      capRepo,
		availability: availabilitySvc,
		booking:      bookingSvc,
		logger:       logger,
	}
}

type Params struct {
	OriginalID  uuid.UUID
	RequesterID uuid.UUID
	NewStaffID  uuid.UUID
	NewDate     time.Time
	NewSlotTime string
	Notes       string
}

func (s *Service) Reschedule(ctx context.Context, p Params) (*model.Appointment, error) {
	orig, err := s.repo.Get(ctx, p.OriginalID)
	if err != nil {
		return nil, err
	}

	if orig.ClientID == nil || *orig.ClientID != p.RequesterID {
		return nil, apperrors.DomainRule("appointment does not belong to the requesting client")
	}
	switch orig.Status {
	case model.StatusCancelado:
		return nil, apperrors.DomainRule("cancelled appointments cannot be rescheduled")
	case model.StatusConcluido:
		return nil, apperrors.DomainRule("concluded appointments cannot be rescheduled")
	}

	// The target slot is validated in full before the original is
	// touched; a rejected move must leave the original booking intact.
	if !availability.InGrid(p.NewSlotTime) {
		return nil, apperrors.Validationf("time slot %q is not on the daily grid", p.NewSlotTime)
	}
	if p.NewDate.IsZero() {
		return nil, apperrors.Validation("date is required")
	}
	if model.DateBefore(p.NewDate, time.Now()) {
		return nil, apperrors.Validation("date cannot be in the past")
	}

	has, err := s.capRepo.HasCapability(ctx, p.NewStaffID, orig.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check capability: %w", err)
	}
	if !has {
		return nil, apperrors.Validation("staff member is not qualified for this service")
	}

	// The original's own slot must not block a no-op reschedule.
	if !s.sameSlot(orig, p) {
		free, err := s.availability.IsSlotFree(ctx, p.NewStaffID, p.NewDate, p.NewSlotTime)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, apperrors.Conflict("slot no longer available")
		}
	}

	// Only a still-AGENDADO original is auto-cancelled; other statuses
	// are left untouched.
	if orig.Status == model.StatusAgendado {
		if err := s.booking.Cancel(ctx, orig.ID); err != nil {
			return nil, fmt.Errorf("failed to cancel original appointment: %w", err)
		}
	}

	apt, err := s.booking.Create(ctx, booking.CreateParams{
		ClientID:  *orig.ClientID,
		ServiceID: orig.ServiceID,
		StaffID:   &p.NewStaffID,
		Date:      p.NewDate,
		SlotTime:  p.NewSlotTime,
		Notes:     s.auditNotes(orig, p.Notes),
	})
	if err != nil {
		return nil, err
	}
	metrics.Reschedules.Inc()

	return apt, nil
}

func (s *Service) sameSlot(orig *model.Appointment, p Params) bool {
	return orig.StaffID != nil &&
		*orig.StaffID == p.NewStaffID &&
		model.SameDate(orig.Date, p.NewDate) &&
		orig.SlotTime == p.NewSlotTime
}

// auditNotes builds the successor's notes: the caller's text plus a
// structured reference to the superseded appointment.
func (s *Service) auditNotes(orig *model.Appointment, notes string) string {
	var b strings.Builder
	if notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Reagendado do atendimento %s de %s às %s.",
		orig.ID, orig.Date.Format("02/01/2006"), orig.SlotTime)
	if orig.Notes != "" {
		fmt.Fprintf(&b, "\nObservações anteriores: %s", orig.Notes)
	}
	return b.String()
}
