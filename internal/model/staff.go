package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a person who can be assigned appointments.
type StaffMember struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Capability asserts that a staff member is qualified to perform a
// service at a location. Identity is the (staff, service, location)
// triple.
type Capability struct {
	StaffID    uuid.UUID `db:"staff_id" json:"staff_id"`
	ServiceID  uuid.UUID `db:"service_id" json:"service_id"`
	LocationID uuid.UUID `db:"location_id" json:"location_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateCapabilityRequest struct {
	StaffID    uuid.UUID `json:"staff_id" binding:"required"`
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}
