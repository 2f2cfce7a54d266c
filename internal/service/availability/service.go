package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
)

// Daily slot grid: 08:00 through 18:00 inclusive, every 30 minutes.
const (
	gridStartMinutes = 8 * 60
	gridEndMinutes   = 18 * 60
	gridStepMinutes  = 30

	eligibleCachePrefix = "eligible:"
)

var slotGrid = buildSlotGrid()

func buildSlotGrid() []string {
	var slots []string
	for m := gridStartMinutes; m <= gridEndMinutes; m += gridStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// InGrid reports whether slot is one of the bookable grid tokens.
func InGrid(slot string) bool {
	for _, s := range slotGrid {
		if s == slot {
			return true
		}
	}
	return false
}

type Service struct {
	apptRepo repository.AppointmentRepository
	capRepo  repository.CapabilityRepository
	cache    *cache.Cache
}

func NewService(apptRepo repository.AppointmentRepository, capRepo repository.CapabilityRepository, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		apptRepo: apptRepo,
		capRepo:  capRepo,
		cache:    cache.New(cacheTTL, 5*time.Minute),
	}
}

// ListTimeSlots returns the fixed daily grid.
func (s *Service) ListTimeSlots() []string {
	slots := make([]string, len(slotGrid))
	copy(slots, slotGrid)
	return slots
}

// ListEligibleStaff returns active staff holding a capability for the
// service. An unknown service id yields an empty list, not an error;
// the caller treats it as "no availability".
func (s *Service) ListEligibleStaff(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffMember, error) {
	key := eligibleCachePrefix + serviceID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.StaffMember), nil
	}

	staff, err := s.capRepo.ListEligibleStaff(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible staff: %w", err)
	}
	if staff == nil {
		staff = []*model.StaffMember{}
	}

	s.cache.SetDefault(key, staff)
	return staff, nil
}

// InvalidateEligibleStaff drops the cached staff set for a service.
// Capability writes call this.
func (s *Service) InvalidateEligibleStaff(serviceID uuid.UUID) {
	s.cache.Delete(eligibleCachePrefix + serviceID.String())
}

// IsSlotFree reports whether no non-cancelled appointment occupies the
// exact (staff, date, time) slot. A slot held only by a cancelled
// appointment is free.
func (s *Service) IsSlotFree(ctx context.Context, staffID uuid.UUID, date time.Time, slotTime string) (bool, error) {
	count, err := s.apptRepo.CountActiveAt(ctx, staffID, model.DateOnly(date), slotTime)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count == 0, nil
}

// ListFreeSlots returns the grid entries still bookable for the staff
// member on the date.
func (s *Service) ListFreeSlots(ctx context.Context, staffID uuid.UUID, date time.Time) ([]string, error) {
	taken, err := s.apptRepo.ListByStaffAndDate(ctx, staffID, model.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list staff appointments: %w", err)
	}

	occupied := make(map[string]bool, len(taken))
	for _, apt := range taken {
		occupied[apt.SlotTime] = true
	}

	free := make([]string, 0, len(slotGrid))
	for _, slot := range slotGrid {
		if !occupied[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}
