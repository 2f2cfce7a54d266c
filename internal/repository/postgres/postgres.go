package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agendahub/agenda-api/internal/repository"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type staffRepository struct {
	db *sqlx.DB
}

type capabilityRepository struct {
	db *sqlx.DB
}

type clientRepository struct {
	db *sqlx.DB
}

type serviceRepository struct {
	db *sqlx.DB
}

type locationRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func NewCapabilityRepository(db *sqlx.DB) repository.CapabilityRepository {
	return &capabilityRepository{db: db}
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewLocationRepository(db *sqlx.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

// withTx executes fn within a transaction; each core operation is one
// transaction boundary.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// rejection, optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// activeSlotConstraint is the partial unique index that rejects a
// second non-cancelled appointment at the same (staff, date, time).
const activeSlotConstraint = "appointments_active_slot_key"

// slotConflictFrom converts a unique violation on the active-slot index
// into the conflict error surfaced to callers; anything else passes
// through untouched.
func slotConflictFrom(err error) error {
	if isUniqueViolation(err, activeSlotConstraint) {
		return apperrors.Conflict("slot no longer available")
	}
	return err
}
