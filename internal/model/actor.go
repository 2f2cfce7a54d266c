package model

import "github.com/google/uuid"

// Actor is the authenticated caller identity, resolved by the
// transport layer and handed to the core as an opaque input.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// Roles carried in the identity token.
const (
	RoleClient string = "CLIENT"
	RoleStaff  string = "STAFF"
	RoleAdmin  string = "ADMIN"
)
