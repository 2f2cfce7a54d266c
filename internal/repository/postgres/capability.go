package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/model"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

func (r *capabilityRepository) Create(ctx context.Context, cap *model.Capability) error {
	query := `
		INSERT INTO capabilities (staff_id, service_id, location_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	cap.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		cap.StaffID, cap.ServiceID, cap.LocationID, cap.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.Conflict("capability already assigned")
		}
		return fmt.Errorf("failed to create capability: %w", err)
	}
	return nil
}

func (r *capabilityRepository) Delete(ctx context.Context, staffID, serviceID, locationID uuid.UUID) error {
	query := `
		DELETE FROM capabilities
		WHERE staff_id = $1 AND service_id = $2 AND location_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, staffID, serviceID, locationID)
	if err != nil {
		return fmt.Errorf("failed to delete capability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("capability")
	}
	return nil
}

func (r *capabilityRepository) ListForStaff(ctx context.Context, staffID uuid.UUID) ([]*model.Capability, error) {
	query := `
		SELECT staff_id, service_id, location_id, created_at
		FROM capabilities
		WHERE staff_id = $1
	`
	var caps []*model.Capability
	if err := r.db.SelectContext(ctx, &caps, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list capabilities: %w", err)
	}
	return caps, nil
}

func (r *capabilityRepository) ListEligibleStaff(ctx context.Context, serviceID uuid.UUID) ([]*model.StaffMember, error) {
	// Joins capabilities to active staff; unknown service ids simply
	// produce an empty set.
	query := `
		SELECT DISTINCT s.id, s.name, s.email, s.active, s.created_at, s.updated_at
		FROM staff_members s
		INNER JOIN capabilities c ON c.staff_id = s.id
		WHERE c.service_id = $1
		AND s.active = true
		ORDER BY s.name ASC
	`
	var staff []*model.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list eligible staff: %w", err)
	}
	return staff, nil
}

func (r *capabilityRepository) HasCapability(ctx context.Context, staffID, serviceID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM capabilities
			WHERE staff_id = $1 AND service_id = $2
		)
	`
	var has bool
	if err := r.db.GetContext(ctx, &has, query, staffID, serviceID); err != nil {
		return false, fmt.Errorf("failed to check capability: %w", err)
	}
	return has, nil
}
