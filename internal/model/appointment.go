package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. The literal tokens
// are persisted as-is.
type Status string

const (
	StatusAgendado      Status = "AGENDADO"
	StatusConfirmado    Status = "CONFIRMADO"
	StatusEmAtendimento Status = "EM_ATENDIMENTO"
	StatusConcluido     Status = "CONCLUIDO"
	StatusCancelado     Status = "CANCELADO"
	StatusNaoCompareceu Status = "NAO_COMPARECEU"
)

// statusLabels maps each status to its display text. Kept beside the
// enum instead of as behavior on the tag.
var statusLabels = map[Status]string{
	StatusAgendado:      "Agendado",
	StatusConfirmado:    "Confirmado",
	StatusEmAtendimento: "Em atendimento",
	StatusConcluido:     "Concluído",
	StatusCancelado:     "Cancelado",
	StatusNaoCompareceu: "Não compareceu",
}

// transitions is the legal state graph. A status missing from the map
// is terminal.
var transitions = map[Status][]Status{
	StatusAgendado:      {StatusConfirmado, StatusEmAtendimento, StatusCancelado, StatusNaoCompareceu},
	StatusConfirmado:    {StatusEmAtendimento, StatusCancelado, StatusNaoCompareceu},
	StatusEmAtendimento: {StatusConcluido, StatusCancelado},
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

// IsTerminal reports whether no transition out of s is permitted.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Appointment represents one booking. Exactly one of ClientID or the
// walk-in identity fields (WalkinName/WalkinCPF/WalkinPhone) is set.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	WalkinName  *string    `db:"walkin_name" json:"walkin_name,omitempty"`
	WalkinCPF   *string    `db:"walkin_cpf" json:"walkin_cpf,omitempty"`
	WalkinPhone *string    `db:"walkin_phone" json:"walkin_phone,omitempty"`
	ServiceID   uuid.UUID  `db:"service_id" json:"service_id"`
	StaffID     *uuid.UUID `db:"staff_id" json:"staff_id,omitempty"`
	Date        time.Time  `db:"date" json:"date"`
	SlotTime    string     `db:"slot_time" json:"slot_time"`
	Status      Status     `db:"status" json:"status"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsWalkin reports whether the appointment carries an inline walk-in
// identity rather than a client reference.
func (a *Appointment) IsWalkin() bool {
	return a.ClientID == nil && a.WalkinName != nil
}

// DisplayName is the name shown on the queue display panel.
func (a *Appointment) DisplayName(clientName string) string {
	if a.IsWalkin() {
		return *a.WalkinName
	}
	return clientName
}

type CreateAppointmentRequest struct {
	ClientID  uuid.UUID  `json:"client_id" binding:"required"`
	ServiceID uuid.UUID  `json:"service_id" binding:"required"`
	StaffID   *uuid.UUID `json:"staff_id"`
	Date      string     `json:"date" binding:"required"`
	SlotTime  string     `json:"slot_time" binding:"required"`
	Notes     string     `json:"notes" binding:"max=1000"`
}

type AdmitWalkinRequest struct {
	Name      string    `json:"name" binding:"required"`
	CPF       string    `json:"cpf" binding:"required,cpf"`
	Phone     string    `json:"phone" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	StaffID   uuid.UUID `json:"staff_id" binding:"required"`
}

type RescheduleRequest struct {
	StaffID  uuid.UUID `json:"staff_id" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	SlotTime string    `json:"slot_time" binding:"required"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StaffID *uuid.UUID `json:"staff_id"`
	Notes   *string    `json:"notes"`
}

type AppointmentFilters struct {
	ClientID  *uuid.UUID
	StaffID   *uuid.UUID
	ServiceID *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
}
