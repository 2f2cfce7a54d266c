package walkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/metrics"
	"github.com/agendahub/agenda-api/pkg/validator"
)

// SlotTime is the sentinel time assigned to walk-in admissions. A
// walk-in occupies a queue position, not a calendar slot, so it is
// kept off the bookable grid entirely.
const SlotTime = "23:59"

type Service struct {
	repo      repository.AppointmentRepository
	staffRepo repository.StaffRepository
	capRepo   repository.CapabilityRepository
	logger    *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	staffRepo repository.StaffRepository,
	capRepo repository.CapabilityRepository,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		staffRepo: staffRepo,
		capRepo:   capRepo,
		logger:    logger,
	}
}

type AdmitParams struct {
	Name      string
	CPF       string
	Phone     string
	ServiceID uuid.UUID
	StaffID   uuid.UUID
}

// Admit places a physically present, unscheduled client into today's
// queue, pre-assigned to a qualified staff member.
func (s *Service) Admit(ctx context.Context, p AdmitParams) (*model.Appointment, error) {
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:          uuid.New(),
		WalkinName:  &p.Name,
		WalkinCPF:   &p.CPF,
		WalkinPhone: &p.Phone,
		ServiceID:   p.ServiceID,
		StaffID:     &p.StaffID,
		Date:        model.DateOnly(time.Now()),
		SlotTime:    SlotTime,
		Status:      model.StatusAgendado,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to admit walk-in: %w", err)
	}
	metrics.WalkinsAdmitted.Inc()

	return apt, nil
}

func (s *Service) validate(ctx context.Context, p *AdmitParams) error {
	if p.Name == "" {
		return apperrors.Validation("name is required")
	}
	if !validator.IsCPF(p.CPF) {
		return apperrors.Validation("invalid CPF")
	}
	if p.Phone == "" {
		return apperrors.Validation("phone is required")
	}
	if p.ServiceID == uuid.Nil {
		return apperrors.Validation("service is required")
	}
	if p.StaffID == uuid.Nil {
		return apperrors.Validation("staff member is required")
	}

	staff, err := s.staffRepo.Get(ctx, p.StaffID)
	if err != nil {
		return err
	}
	if !staff.Active {
		return apperrors.Validation("staff member is not active")
	}

	has, err := s.capRepo.HasCapability(ctx, p.StaffID, p.ServiceID)
	if err != nil {
		return fmt.Errorf("failed to check capability: %w", err)
	}
	if !has {
		return apperrors.Validation("staff member is not qualified for this service")
	}
	return nil
}
