package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/model"
)

// All repository interfaces in one file. Implementations return fully
// materialized value objects; each method fetches exactly the columns
// of its aggregate, nothing lazily.
type (
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		// Delete is the administrative purge, distinct from cancellation.
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// CountActiveAt counts non-cancelled appointments at the exact
		// (staff, date, time) slot.
		CountActiveAt(ctx context.Context, staffID uuid.UUID, date time.Time, slotTime string) (int, error)
		ListByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*model.Appointment, error)
		ListForDate(ctx context.Context, date time.Time, statuses ...model.Status) ([]*model.Appointment, error)
		ListByStatus(ctx context.Context, status model.Status) ([]*model.Appointment, error)
	}

	StaffRepository interface {
		Create(ctx context.Context, staff *model.StaffMember) error
		Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
		Update(ctx context.Context, staff *model.StaffMember) error
		List(ctx context.Context) ([]*model.StaffMember, error)
	}

	CapabilityRepository interface {
		Create(ctx context.Context, cap *model.Capability) error
		Delete(ctx context.Context, staffID, serviceID, locationID uuid.UUID) error
		ListForStaff(ctx context.Context, staffID uuid.UUID) ([]*model.Capability, error)
		// ListEligibleStaff returns active staff holding a capability
		// for the service.
		ListEligibleStaff(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffMember, error)
		HasCapability(ctx context.Context, staffID, serviceID uuid.UUID) (bool, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
	}

	ServiceRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		List(ctx context.Context) ([]*model.Service, error)
	}

	LocationRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Location, error)
		List(ctx context.Context) ([]*model.Location, error)
	}
)
