package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
)

// Service derives the staff-facing queue views. Pure reads, recomputed
// on demand.
type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

// ListWaiting returns today's AGENDADO and CONFIRMADO appointments
// ordered by slot time.
func (s *Service) ListWaiting(ctx context.Context) ([]*model.Appointment, error) {
	today := model.DateOnly(time.Now())
	waiting, err := s.repo.ListForDate(ctx, today, model.StatusAgendado, model.StatusConfirmado)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting queue: %w", err)
	}
	return waiting, nil
}

// ListInService returns appointments currently being attended.
func (s *Service) ListInService(ctx context.Context) ([]*model.Appointment, error) {
	inService, err := s.repo.ListByStatus(ctx, model.StatusEmAtendimento)
	if err != nil {
		return nil, fmt.Errorf("failed to list in-service queue: %w", err)
	}
	return inService, nil
}

// WaitingCount is the current queue length pushed to the display sink.
func (s *Service) WaitingCount(ctx context.Context) (int, error) {
	waiting, err := s.ListWaiting(ctx)
	if err != nil {
		return 0, err
	}
	return len(waiting), nil
}
