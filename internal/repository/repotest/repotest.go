// Package repotest provides in-memory repository implementations for
// exercising the scheduling services without a database. The
// appointment store enforces the same active-slot uniqueness rule as
// the Postgres partial index, so conflict behavior matches production.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/model"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

const walkinSentinel = "23:59"

type AppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *AppointmentRepo) violatesActiveSlot(apt *model.Appointment) bool {
	if apt.StaffID == nil || apt.Status == model.StatusCancelado || apt.SlotTime == walkinSentinel {
		return false
	}
	for _, other := range r.appointments {
		if other.ID == apt.ID {
			continue
		}
		if other.StaffID == nil || other.Status == model.StatusCancelado {
			continue
		}
		if *other.StaffID == *apt.StaffID &&
			model.SameDate(other.Date, apt.Date) &&
			other.SlotTime == apt.SlotTime {
			return true
		}
	}
	return false
}

func (r *AppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.violatesActiveSlot(apt) {
		return apperrors.Conflict("slot no longer available")
	}

	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now

	stored := *apt
	r.appointments[apt.ID] = &stored
	return nil
}

func (r *AppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	copy := *apt
	return &copy, nil
}

func (r *AppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[apt.ID]; !ok {
		return apperrors.NotFound("appointment")
	}
	if r.violatesActiveSlot(apt) {
		return apperrors.Conflict("slot no longer available")
	}

	apt.UpdatedAt = time.Now()
	stored := *apt
	r.appointments[apt.ID] = &stored
	return nil
}

func (r *AppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment")
	}
	if apt.Status != model.StatusCancelado {
		return apperrors.DomainRule("only cancelled appointments can be purged")
	}
	delete(r.appointments, id)
	return nil
}

func (r *AppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		if filters != nil {
			if filters.ClientID != nil && (apt.ClientID == nil || *apt.ClientID != *filters.ClientID) {
				continue
			}
			if filters.StaffID != nil && (apt.StaffID == nil || *apt.StaffID != *filters.StaffID) {
				continue
			}
			if filters.ServiceID != nil && apt.ServiceID != *filters.ServiceID {
				continue
			}
			if filters.Status != nil && apt.Status != *filters.Status {
				continue
			}
			if filters.DateFrom != nil && apt.Date.Before(*filters.DateFrom) {
				continue
			}
			if filters.DateTo != nil && apt.Date.After(*filters.DateTo) {
				continue
			}
		}
		copy := *apt
		out = append(out, &copy)
	}
	sortAppointments(out)
	return out, nil
}

func (r *AppointmentRepo) CountActiveAt(_ context.Context, staffID uuid.UUID, date time.Time, slotTime string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, apt := range r.appointments {
		if apt.StaffID == nil || *apt.StaffID != staffID {
			continue
		}
		if apt.Status == model.StatusCancelado {
			continue
		}
		if model.SameDate(apt.Date, date) && apt.SlotTime == slotTime {
			count++
		}
	}
	return count, nil
}

func (r *AppointmentRepo) ListByStaffAndDate(_ context.Context, staffID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.StaffID == nil || *apt.StaffID != staffID {
			continue
		}
		if apt.Status == model.StatusCancelado || !model.SameDate(apt.Date, date) {
			continue
		}
		copy := *apt
		out = append(out, &copy)
	}
	sortAppointments(out)
	return out, nil
}

func (r *AppointmentRepo) ListForDate(_ context.Context, date time.Time, statuses ...model.Status) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		if !model.SameDate(apt.Date, date) {
			continue
		}
		for _, s := range statuses {
			if apt.Status == s {
				copy := *apt
				out = append(out, &copy)
				break
			}
		}
	}
	sortAppointments(out)
	return out, nil
}

func (r *AppointmentRepo) ListByStatus(_ context.Context, status model.Status) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.Status == status {
			copy := *apt
			out = append(out, &copy)
		}
	}
	sortAppointments(out)
	return out, nil
}

func sortAppointments(appointments []*model.Appointment) {
	sort.Slice(appointments, func(i, j int) bool {
		if !appointments[i].Date.Equal(appointments[j].Date) {
			return appointments[i].Date.Before(appointments[j].Date)
		}
		return appointments[i].SlotTime < appointments[j].SlotTime
	})
}

type StaffRepo struct {
	mu    sync.Mutex
	staff map[uuid.UUID]*model.StaffMember
}

func NewStaffRepo() *StaffRepo {
	return &StaffRepo{staff: make(map[uuid.UUID]*model.StaffMember)}
}

func (r *StaffRepo) Create(_ context.Context, staff *model.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *staff
	r.staff[staff.ID] = &stored
	return nil
}

func (r *StaffRepo) Get(_ context.Context, id uuid.UUID) (*model.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, apperrors.NotFound("staff member")
	}
	copy := *staff
	return &copy, nil
}

func (r *StaffRepo) Update(_ context.Context, staff *model.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.ID]; !ok {
		return apperrors.NotFound("staff member")
	}
	stored := *staff
	r.staff[staff.ID] = &stored
	return nil
}

func (r *StaffRepo) List(_ context.Context) ([]*model.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.StaffMember
	for _, s := range r.staff {
		copy := *s
		out = append(out, &copy)
	}
	return out, nil
}

type CapabilityRepo struct {
	mu    sync.Mutex
	caps  []*model.Capability
	staff *StaffRepo
}

// NewCapabilityRepo shares the staff store so eligible-staff lookups
// can resolve active staff members.
func NewCapabilityRepo(staff *StaffRepo) *CapabilityRepo {
	return &CapabilityRepo{staff: staff}
}

func (r *CapabilityRepo) Create(_ context.Context, cap *model.Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caps {
		if c.StaffID == cap.StaffID && c.ServiceID == cap.ServiceID && c.LocationID == cap.LocationID {
			return apperrors.Conflict("capability already assigned")
		}
	}
	stored := *cap
	r.caps = append(r.caps, &stored)
	return nil
}

func (r *CapabilityRepo) Delete(_ context.Context, staffID, serviceID, locationID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.caps {
		if c.StaffID == staffID && c.ServiceID == serviceID && c.LocationID == locationID {
			r.caps = append(r.caps[:i], r.caps[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("capability")
}

func (r *CapabilityRepo) ListForStaff(_ context.Context, staffID uuid.UUID) ([]*model.Capability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Capability
	for _, c := range r.caps {
		if c.StaffID == staffID {
			copy := *c
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *CapabilityRepo) ListEligibleStaff(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffMember, error) {
	r.mu.Lock()
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, c := range r.caps {
		if c.ServiceID == serviceID && !seen[c.StaffID] {
			seen[c.StaffID] = true
			ids = append(ids, c.StaffID)
		}
	}
	r.mu.Unlock()

	var out []*model.StaffMember
	for _, id := range ids {
		staff, err := r.staff.Get(ctx, id)
		if err != nil {
			continue
		}
		if staff.Active {
			out = append(out, staff)
		}
	}
	return out, nil
}

func (r *CapabilityRepo) HasCapability(_ context.Context, staffID, serviceID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caps {
		if c.StaffID == staffID && c.ServiceID == serviceID {
			return true, nil
		}
	}
	return false, nil
}

type ClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*model.Client
}

func NewClientRepo() *ClientRepo {
	return &ClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *ClientRepo) Create(_ context.Context, client *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *client
	r.clients[client.ID] = &stored
	return nil
}

func (r *ClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NotFound("client")
	}
	copy := *client
	return &copy, nil
}

type ServiceRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]*model.Service
}

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{services: make(map[uuid.UUID]*model.Service)}
}

func (r *ServiceRepo) Add(svc *model.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *svc
	r.services[svc.ID] = &stored
}

func (r *ServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service")
	}
	copy := *svc
	return &copy, nil
}

func (r *ServiceRepo) List(_ context.Context) ([]*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Service
	for _, s := range r.services {
		copy := *s
		out = append(out, &copy)
	}
	return out, nil
}

type LocationRepo struct {
	mu        sync.Mutex
	locations map[uuid.UUID]*model.Location
}

func NewLocationRepo() *LocationRepo {
	return &LocationRepo{locations: make(map[uuid.UUID]*model.Location)}
}

func (r *LocationRepo) Add(loc *model.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *loc
	r.locations[loc.ID] = &stored
}

func (r *LocationRepo) Get(_ context.Context, id uuid.UUID) (*model.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[id]
	if !ok {
		return nil, apperrors.NotFound("location")
	}
	copy := *loc
	return &copy, nil
}

func (r *LocationRepo) List(_ context.Context) ([]*model.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Location
	for _, l := range r.locations {
		copy := *l
		out = append(out, &copy)
	}
	return out, nil
}
