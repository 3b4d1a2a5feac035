package agenda_service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

func TestBuildNotificationDecisions(t *testing.T) {
	base := in.CancelCommand{
		AppointmentID:     uuid.New(),
		TargetStatus:      domain.AppointmentStatusCanceladoAcordado,
		NotifyPatient:     true,
		Consent:           domain.PatientConsent{WhatsApp: true, Email: true},
		RecipientWhatsApp: "+5511999990000",
		RecipientEmail:    "paciente@example.com",
	}

	t.Run("os dois canais com consentimento e destinatário", func(t *testing.T) {
		decisions := BuildNotificationDecisions(base)
		require.Len(t, decisions, 2)
		assert.Equal(t, domain.NotificationChannelWhatsApp, decisions[0].Channel)
		assert.Equal(t, domain.NotificationChannelEmail, decisions[1].Channel)
		assert.Equal(t, "appointment_cancelled_agreed", decisions[0].Template)
	})

	t.Run("sem pedido de notificação não há decisão", func(t *testing.T) {
		cmd := base
		cmd.NotifyPatient = false
		assert.Empty(t, BuildNotificationDecisions(cmd))
	})

	t.Run("sem consentimento o canal é descartado", func(t *testing.T) {
		cmd := base
		cmd.Consent = domain.PatientConsent{WhatsApp: false, Email: true}
		decisions := BuildNotificationDecisions(cmd)
		require.Len(t, decisions, 1)
		assert.Equal(t, domain.NotificationChannelEmail, decisions[0].Channel)
	})

	t.Run("consentimento sem destinatário também descarta", func(t *testing.T) {
		cmd := base
		cmd.RecipientWhatsApp = ""
		decisions := BuildNotificationDecisions(cmd)
		require.Len(t, decisions, 1)
		assert.Equal(t, domain.NotificationChannelEmail, decisions[0].Channel)
	})

	t.Run("template acompanha o status", func(t *testing.T) {
		cmd := base
		cmd.TargetStatus = domain.AppointmentStatusCanceladoFalta
		decisions := BuildNotificationDecisions(cmd)
		require.NotEmpty(t, decisions)
		assert.Equal(t, "appointment_no_show", decisions[0].Template)
	})
}

func newTestAgendaService(storage *fakeStorage, notifier *fakeNotifier) *AgendaService {
	return NewAgendaService(storage, nil, notifier, testConfig(), nopLogger{})
}

func TestCancelAppointment_Single(t *testing.T) {
	storage := newFakeStorage()
	notifier := &fakeNotifier{}
	service := newTestAgendaService(storage, notifier)

	appointment := appointmentAt(t, testDay(t), "09:00", 60)
	storage.appointments[appointment.ID] = appointment

	result, err := service.CancelAppointment(context.Background(), in.CancelCommand{
		AppointmentID:     appointment.ID,
		TargetStatus:      domain.AppointmentStatusCanceladoAcordado,
		Reason:            "Paciente remarcou",
		CancelType:        domain.CancelTypeSingle,
		NotifyPatient:     true,
		Consent:           domain.PatientConsent{WhatsApp: true},
		RecipientWhatsApp: "+5511999990000",
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{appointment.ID}, result.UpdatedIDs)
	require.Len(t, storage.updated, 1)
	assert.Equal(t, domain.AppointmentStatusCanceladoAcordado, storage.updated[0].Status)
	assert.Equal(t, "Paciente remarcou", storage.updated[0].CancelReason)

	require.Len(t, notifier.published, 1)
	assert.Equal(t, domain.NotificationChannelWhatsApp, notifier.published[0].Channel)
}

func TestCancelAppointment_RejectsInvalidTarget(t *testing.T) {
	storage := newFakeStorage()
	service := newTestAgendaService(storage, nil)

	_, err := service.CancelAppointment(context.Background(), in.CancelCommand{
		AppointmentID: uuid.New(),
		TargetStatus:  domain.AppointmentStatusConfirmado,
	})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "targetStatus", validationErr.Field)
}

func TestCancelAppointment_RejectsForbiddenTransition(t *testing.T) {
	storage := newFakeStorage()
	service := newTestAgendaService(storage, nil)

	appointment := appointmentAt(t, testDay(t), "09:00", 60)
	appointment.Status = domain.AppointmentStatusFinalizado
	storage.appointments[appointment.ID] = appointment

	_, err := service.CancelAppointment(context.Background(), in.CancelCommand{
		AppointmentID: appointment.ID,
		TargetStatus:  domain.AppointmentStatusCanceladoAcordado,
	})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCancelAppointment_SeriesCascadesToFutureOnly(t *testing.T) {
	storage := newFakeStorage()
	service := newTestAgendaService(storage, nil)

	recurrenceID := uuid.New()
	day := testDay(t)

	past := appointmentAt(t, day.AddDate(0, 0, -7), "09:00", 60)
	past.Status = domain.AppointmentStatusFinalizado
	past.RecurrenceID = &recurrenceID

	anchor := appointmentAt(t, day, "09:00", 60)
	anchor.RecurrenceID = &recurrenceID

	future := appointmentAt(t, day.AddDate(0, 0, 7), "09:00", 60)
	future.RecurrenceID = &recurrenceID

	for _, a := range []domain.Appointment{past, anchor, future} {
		storage.appointments[a.ID] = a
	}

	result, err := service.CancelAppointment(context.Background(), in.CancelCommand{
		AppointmentID: anchor.ID,
		TargetStatus:  domain.AppointmentStatusCanceladoProfissional,
		Reason:        "Profissional de licença",
		CancelType:    domain.CancelTypeSeries,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{anchor.ID, future.ID}, result.UpdatedIDs)
	assert.Equal(t, domain.AppointmentStatusFinalizado, storage.appointments[past.ID].Status,
		"ocorrência já realizada fica intocada")

	for _, id := range result.UpdatedIDs {
		assert.Equal(t, domain.AppointmentStatusCanceladoProfissional, storage.appointments[id].Status)
		assert.Equal(t, "Profissional de licença", storage.appointments[id].CancelReason)
	}
}

func TestGetDaySlotsUsesSnapshot(t *testing.T) {
	storage := newFakeStorage()
	service := newTestAgendaService(storage, nil)

	day := testDay(t)
	storage.snapshot = &out.DaySnapshot{
		Rules: []domain.AvailabilityRule{rule("08:00", "10:00")},
	}

	result, err := service.GetDaySlots(context.Background(), uuid.New(), profID, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00"}, slotTimes(result.Slots))
}

func TestGetDaySlots_RejectsMisconfiguredDuration(t *testing.T) {
	storage := newFakeStorage()
	cfg := testConfig()
	cfg.Agenda.DefaultDurationMinutes = 0
	service := NewAgendaService(storage, nil, nil, cfg, nopLogger{})

	_, err := service.GetDaySlots(context.Background(), uuid.New(), profID, testDay(t))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "duration", validationErr.Field)
}
