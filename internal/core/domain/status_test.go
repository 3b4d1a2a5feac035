package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusAgendado, AppointmentStatusConfirmado, true},
		{AppointmentStatusAgendado, AppointmentStatusFinalizado, true},
		{AppointmentStatusAgendado, AppointmentStatusCanceladoAcordado, true},
		{AppointmentStatusConfirmado, AppointmentStatusFinalizado, true},
		{AppointmentStatusConfirmado, AppointmentStatusCanceladoFalta, true},
		{AppointmentStatusConfirmado, AppointmentStatusAgendado, false},
		{AppointmentStatusFinalizado, AppointmentStatusAgendado, false},
		{AppointmentStatusFinalizado, AppointmentStatusCanceladoAcordado, false},
		{AppointmentStatusCanceladoAcordado, AppointmentStatusAgendado, true},
		{AppointmentStatusCanceladoProfissional, AppointmentStatusConfirmado, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestBilling(t *testing.T) {
	assert.Equal(t, BillingOutcomeCredit, AppointmentStatusCanceladoAcordado.Billing())
	assert.Equal(t, BillingOutcomeBilled, AppointmentStatusCanceladoFalta.Billing())
	assert.Equal(t, BillingOutcomeNotBilled, AppointmentStatusCanceladoProfissional.Billing())
	assert.Equal(t, BillingOutcomeNone, AppointmentStatusAgendado.Billing())
}

func TestDefaultBlocksTime(t *testing.T) {
	assert.True(t, AppointmentTypeConsulta.DefaultBlocksTime())
	assert.True(t, AppointmentTypeTarefa.DefaultBlocksTime())
	assert.True(t, AppointmentTypeReuniao.DefaultBlocksTime())
	assert.False(t, AppointmentTypeLembrete.DefaultBlocksTime())
	assert.False(t, AppointmentTypeNota.DefaultBlocksTime())
}

func TestIsBlocking(t *testing.T) {
	appointment := Appointment{BlocksTime: true, Status: AppointmentStatusAgendado}
	assert.True(t, appointment.IsBlocking())

	appointment.Status = AppointmentStatusCanceladoFalta
	assert.False(t, appointment.IsBlocking(), "cancelado nunca ocupa horário")

	appointment.Status = AppointmentStatusAgendado
	appointment.BlocksTime = false
	assert.False(t, appointment.IsBlocking())
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(AppointmentTypeConsulta, 15))
	assert.Error(t, ValidateDuration(AppointmentTypeConsulta, 10), "consulta tem piso de 15")
	assert.NoError(t, ValidateDuration(AppointmentTypeTarefa, 5))
	assert.Error(t, ValidateDuration(AppointmentTypeTarefa, 4))
	assert.Error(t, ValidateDuration(AppointmentTypeConsulta, 481))
	assert.NoError(t, ValidateDuration(AppointmentTypeConsulta, 480))
}
