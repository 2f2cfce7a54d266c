package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agendahub/agenda-api/internal/model"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

const appointmentColumns = `
	id, client_id, walkin_name, walkin_cpf, walkin_phone,
	service_id, staff_id, date, slot_time, status, notes,
	created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, client_id, walkin_name, walkin_cpf, walkin_phone,
			service_id, staff_id, date, slot_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClientID,
		apt.WalkinName,
		apt.WalkinCPF,
		apt.WalkinPhone,
		apt.ServiceID,
		apt.StaffID,
		apt.Date,
		apt.SlotTime,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		if conflict := slotConflictFrom(err); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET staff_id = $1, date = $2, slot_time = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.StaffID,
		apt.Date,
		apt.SlotTime,
		apt.Status,
		apt.Notes,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		if conflict := slotConflictFrom(err); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Administrative purge only; cancellation is a status change.
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var status model.Status
		err := tx.GetContext(ctx, &status, `SELECT status FROM appointments WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("appointment")
		}
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}
		if status != model.StatusCancelado {
			return apperrors.DomainRule("only cancelled appointments can be purged")
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ClientID != nil {
			query += fmt.Sprintf(" AND client_id = $%d", argCount)
			args = append(args, *filters.ClientID)
			argCount++
		}
		if filters.StaffID != nil {
			query += fmt.Sprintf(" AND staff_id = $%d", argCount)
			args = append(args, *filters.StaffID)
			argCount++
		}
		if filters.ServiceID != nil {
			query += fmt.Sprintf(" AND service_id = $%d", argCount)
			args = append(args, *filters.ServiceID)
			argCount++
		}
		if filters.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, *filters.Status)
			argCount++
		}
		if filters.DateFrom != nil {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, *filters.DateFrom)
			argCount++
		}
		if filters.DateTo != nil {
			query += fmt.Sprintf(" AND date <= $%d", argCount)
			args = append(args, *filters.DateTo)
			argCount++
		}
	}

	query += " ORDER BY date ASC, slot_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountActiveAt(ctx context.Context, staffID uuid.UUID, date time.Time, slotTime string) (int, error) {
	query := `
		SELECT COUNT(1) FROM appointments
		WHERE staff_id = $1
		AND date = $2
		AND slot_time = $3
		AND status <> $4
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, staffID, date, slotTime, model.StatusCancelado)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments at slot: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) ListByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE staff_id = $1
		AND date = $2
		AND status <> $3
		ORDER BY slot_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, staffID, date, model.StatusCancelado)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDate(ctx context.Context, date time.Time, statuses ...model.Status) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date = $1
		AND status = ANY($2)
		ORDER BY slot_time ASC
	`
	tokens := make([]string, len(statuses))
	for i, s := range statuses {
		tokens[i] = string(s)
	}

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, date, pq.Array(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for date: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByStatus(ctx context.Context, status model.Status) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		ORDER BY date ASC, slot_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, status); err != nil {
		return nil, fmt.Errorf("failed to list appointments by status: %w", err)
	}
	return appointments, nil
}
