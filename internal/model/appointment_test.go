package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusAgendado, StatusConfirmado, StatusEmAtendimento,
		StatusConcluido, StatusCancelado, StatusNaoCompareceu,
	} {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}
	assert.False(t, Status("PENDENTE").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("agendado").Valid(), "tokens are case sensitive")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Agendado", StatusAgendado.Label())
	assert.Equal(t, "Em atendimento", StatusEmAtendimento.Label())
	assert.Equal(t, "Concluído", StatusConcluido.Label())
	assert.Equal(t, "Não compareceu", StatusNaoCompareceu.Label())
	assert.Empty(t, Status("PENDENTE").Label())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"scheduled to confirmed", StatusAgendado, StatusConfirmado, true},
		{"scheduled straight to in service", StatusAgendado, StatusEmAtendimento, true},
		{"scheduled to cancelled", StatusAgendado, StatusCancelado, true},
		{"scheduled to no-show", StatusAgendado, StatusNaoCompareceu, true},
		{"scheduled cannot conclude", StatusAgendado, StatusConcluido, false},
		{"confirmed to in service", StatusConfirmado, StatusEmAtendimento, true},
		{"confirmed to cancelled", StatusConfirmado, StatusCancelado, true},
		{"confirmed to no-show", StatusConfirmado, StatusNaoCompareceu, true},
		{"confirmed cannot revert", StatusConfirmado, StatusAgendado, false},
		{"in service to concluded", StatusEmAtendimento, StatusConcluido, true},
		{"in service to cancelled", StatusEmAtendimento, StatusCancelado, true},
		{"in service cannot revert", StatusEmAtendimento, StatusAgendado, false},
		{"in service cannot no-show", StatusEmAtendimento, StatusNaoCompareceu, false},
		{"concluded is final", StatusConcluido, StatusAgendado, false},
		{"cancelled is final", StatusCancelado, StatusAgendado, false},
		{"no-show is final", StatusNaoCompareceu, StatusConfirmado, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusAgendado.IsTerminal())
	assert.False(t, StatusConfirmado.IsTerminal())
	assert.False(t, StatusEmAtendimento.IsTerminal())
	assert.True(t, StatusConcluido.IsTerminal())
	assert.True(t, StatusCancelado.IsTerminal())
	assert.True(t, StatusNaoCompareceu.IsTerminal())
}

func TestAppointmentIsWalkin(t *testing.T) {
	clientID := uuid.New()
	name := "Maria Silva"

	scheduled := &Appointment{ClientID: &clientID}
	assert.False(t, scheduled.IsWalkin())

	walkin := &Appointment{WalkinName: &name}
	assert.True(t, walkin.IsWalkin())
}

func TestAppointmentDisplayName(t *testing.T) {
	clientID := uuid.New()
	name := "Maria Silva"

	scheduled := &Appointment{ClientID: &clientID}
	assert.Equal(t, "João Souza", scheduled.DisplayName("João Souza"))

	walkin := &Appointment{WalkinName: &name}
	assert.Equal(t, "Maria Silva", walkin.DisplayName("ignored"))
}
