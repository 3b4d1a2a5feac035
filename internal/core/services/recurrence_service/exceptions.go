package recurrence_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/json_types"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// ToggleException pula ou despula uma data da série. As duas direções
// são idempotentes: pular data já pulada e despular data ausente
// devolvem Changed=false sem erro.
func (s *RecurrenceService) ToggleException(ctx context.Context, recurrenceID uuid.UUID, date string, action in.ExceptionAction) (*in.ToggleResult, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, domain.NewValidationError("date", err.Error())
	}
	iso := utils.ToDateString(day)

	rec, err := s.storagePort.GetRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	if rec.Exceptions == nil {
		rec.Exceptions = json_types.NewDateSet()
	}

	switch action {
	case in.ExceptionActionSkip:
		return s.skipDate(ctx, rec, iso)
	case in.ExceptionActionUnskip:
		return s.unskipDate(ctx, rec, iso)
	}
	return nil, domain.NewValidationError("action", fmt.Sprintf("ação desconhecida %q", action))
}

func (s *RecurrenceService) skipDate(ctx context.Context, rec *domain.AppointmentRecurrence, iso string) (*in.ToggleResult, error) {
	if rec.Exceptions.Contains(iso) {
		return &in.ToggleResult{
			Exceptions: rec.Exceptions.Sorted(),
			Changed:    false,
			Message:    "data já estava pulada",
		}, nil
	}

	rec.Exceptions.Add(iso)

	result := &in.ToggleResult{Exceptions: rec.Exceptions.Sorted(), Changed: true}

	// A ocorrência materializada naquela data, se existir, vira
	// cancelamento do profissional com o motivo sentinela; o motivo é o
	// que permite reverter com segurança no unskip. BlocksTime não muda:
	// o status cancelado já tira o agendamento da ocupação.
	occurrence, err := s.occurrenceOn(ctx, rec.ID, iso)
	if err != nil {
		return nil, err
	}
	updated := make([]domain.Appointment, 0, 1)
	if occurrence != nil && !occurrence.Status.IsCancelled() && occurrence.Status != domain.AppointmentStatusFinalizado {
		occurrence.Status = domain.AppointmentStatusCanceladoProfissional
		occurrence.CancelReason = domain.RecurrenceSkipReason
		updated = append(updated, *occurrence)
		result.AffectedAppointmentID = occurrence.ID
	}

	if err := s.storagePort.ApplySeriesPatch(ctx, rec, updated, nil); err != nil {
		return nil, fmt.Errorf("recurrence.exception.skip.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, updated)
	s.logger.Info("recurrence.exception.skipped", out.LogFields{
		"recurrenceId": rec.ID,
		"date":         iso,
	})
	return result, nil
}

func (s *RecurrenceService) unskipDate(ctx context.Context, rec *domain.AppointmentRecurrence, iso string) (*in.ToggleResult, error) {
	if !rec.Exceptions.Contains(iso) {
		return &in.ToggleResult{
			Exceptions: rec.Exceptions.Sorted(),
			Changed:    false,
			Message:    "data não estava pulada",
		}, nil
	}

	rec.Exceptions.Remove(iso)

	result := &in.ToggleResult{Exceptions: rec.Exceptions.Sorted(), Changed: true}

	// Só reverte o agendamento que o skip cancelou: status e motivo têm
	// que bater exatamente com o sentinela. Cancelamento manual na mesma
	// data fica como está.
	occurrence, err := s.occurrenceOn(ctx, rec.ID, iso)
	if err != nil {
		return nil, err
	}
	updated := make([]domain.Appointment, 0, 1)
	if occurrence != nil &&
		occurrence.Status == domain.AppointmentStatusCanceladoProfissional &&
		occurrence.CancelReason == domain.RecurrenceSkipReason {
		occurrence.Status = domain.AppointmentStatusAgendado
		occurrence.CancelReason = ""
		updated = append(updated, *occurrence)
		result.AffectedAppointmentID = occurrence.ID
	}

	if err := s.storagePort.ApplySeriesPatch(ctx, rec, updated, nil); err != nil {
		return nil, fmt.Errorf("recurrence.exception.unskip.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, updated)
	s.logger.Info("recurrence.exception.unskipped", out.LogFields{
		"recurrenceId": rec.ID,
		"date":         iso,
	})
	return result, nil
}

// occurrenceOn localiza o agendamento da série numa data; nil quando a
// data nunca foi materializada
func (s *RecurrenceService) occurrenceOn(ctx context.Context, recurrenceID uuid.UUID, iso string) (*domain.Appointment, error) {
	appointments, err := s.storagePort.GetRecurrenceAppointments(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if utils.ToDateString(appointments[i].ScheduledAt) == iso {
			return &appointments[i], nil
		}
	}
	return nil, nil
}
