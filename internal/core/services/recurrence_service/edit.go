package recurrence_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// ApplyEdit aplica uma edição a uma ocorrência ou à série daqui pra
// frente. Conflito devolve o relatório estruturado e não muta nada;
// quem chama resolve e tenta de novo.
func (s *RecurrenceService) ApplyEdit(ctx context.Context, recurrenceID uuid.UUID, patch domain.RecurrencePatch, scope domain.EditScope) (*in.EditResult, error) {
	switch scope {
	case domain.EditScopeOccurrence:
		return s.applyOccurrenceEdit(ctx, patch)
	case domain.EditScopeFuture:
		return s.applyFutureEdit(ctx, recurrenceID, patch)
	}
	return nil, domain.NewValidationError("scope", fmt.Sprintf("escopo desconhecido %q", scope))
}

// Escopo "occurrence": muda só o próprio agendamento, nunca o template
// da série nem as exceções
func (s *RecurrenceService) applyOccurrenceEdit(ctx context.Context, patch domain.RecurrencePatch) (*in.EditResult, error) {
	if patch.OccurrenceID == nil {
		return nil, domain.NewValidationError("occurrenceId", "obrigatório no escopo occurrence")
	}

	appointment, err := s.storagePort.GetAppointment(ctx, *patch.OccurrenceID)
	if err != nil {
		return nil, err
	}

	if patch.StartTime != nil {
		scheduledAt, err := utils.AtClock(appointment.ScheduledAt, *patch.StartTime)
		if err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		duration := appointment.EndAt.Sub(appointment.ScheduledAt)
		appointment.ScheduledAt = scheduledAt
		appointment.EndAt = scheduledAt.Add(duration)
	}
	if patch.EndTime != nil {
		endAt, err := utils.AtClock(appointment.ScheduledAt, *patch.EndTime)
		if err != nil {
			return nil, domain.NewValidationError("endTime", err.Error())
		}
		appointment.EndAt = endAt
	}
	if patch.Modality != nil {
		appointment.Modality = *patch.Modality
	}
	if patch.Notes != nil {
		appointment.Notes = *patch.Notes
	}
	if patch.Price != nil {
		appointment.Price = patch.Price
	}

	if err := s.storagePort.UpdateAppointment(ctx, appointment); err != nil {
		return nil, fmt.Errorf("recurrence.edit.occurrence.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, []domain.Appointment{*appointment})

	return &in.EditResult{Updated: []domain.Appointment{*appointment}}, nil
}

// Escopo "future": atualiza o template e propaga para as ocorrências
// ainda não realizadas; as passadas ficam intocadas. Mudança de dia da
// semana desloca cada data futura preservando o padrão de semanas
// (WEEKLY mesma semana, BIWEEKLY mesma paridade).
func (s *RecurrenceService) applyFutureEdit(ctx context.Context, recurrenceID uuid.UUID, patch domain.RecurrencePatch) (*in.EditResult, error) {
	rec, err := s.storagePort.GetRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.storagePort.GetRecurrenceAppointments(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	newRec := *rec

	if patch.StartTime != nil {
		if _, err := utils.ClockToMinutes(*patch.StartTime); err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		newRec.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		if _, err := utils.ClockToMinutes(*patch.EndTime); err != nil {
			return nil, domain.NewValidationError("endTime", err.Error())
		}
		newRec.EndTime = *patch.EndTime
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		start, _ := utils.ClockToMinutes(newRec.StartTime)
		end, _ := utils.ClockToMinutes(newRec.EndTime)
		if end > start {
			newRec.Duration = end - start
		}
	}
	if patch.RecurrenceEndType != nil {
		newRec.RecurrenceEndType = *patch.RecurrenceEndType
	}
	if patch.Occurrences != nil {
		if *patch.Occurrences < 1 || *patch.Occurrences > domain.MaxOccurrences {
			return nil, domain.NewValidationError("occurrences",
				fmt.Sprintf("fora do intervalo [1, %d]", domain.MaxOccurrences))
		}
		newRec.Occurrences = patch.Occurrences
	}
	if patch.EndDate != nil {
		newRec.EndDate = patch.EndDate
	}

	dayShift := 0
	if patch.DayOfWeek != nil {
		if *patch.DayOfWeek < 0 || *patch.DayOfWeek > 6 {
			return nil, domain.NewValidationError("dayOfWeek", "fora do intervalo [0, 6]")
		}
		dayShift = *patch.DayOfWeek - rec.DayOfWeek
		newRec.DayOfWeek = *patch.DayOfWeek
	}

	// Mudança de cadência identifica as futuras que não cabem mais;
	// a prévia destrutiva fica em PreviewRemoved
	removedIDs := make([]uuid.UUID, 0)
	removedSet := make(map[uuid.UUID]struct{})
	if patch.RecurrenceType != nil && *patch.RecurrenceType != rec.RecurrenceType {
		newRec.RecurrenceType = *patch.RecurrenceType
		removed := futureOutsideCadence(appointments, *patch.RecurrenceType, now)
		for _, id := range removed {
			removedIDs = append(removedIDs, id)
			removedSet[id] = struct{}{}
		}
	}

	futures := make([]domain.Appointment, 0)
	for _, a := range appointments {
		if !a.ScheduledAt.After(now) {
			continue
		}
		if _, gone := removedSet[a.ID]; gone {
			continue
		}

		next := a
		day := utils.StartOfDay(a.ScheduledAt)
		if dayShift != 0 {
			// Deslocamento dentro da mesma semana preserva o offset
			// semanal e, por consequência, a paridade quinzenal
			day = day.AddDate(0, 0, dayShift)
		}
		scheduledAt, err := utils.AtClock(day, newRec.StartTime)
		if err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		next.ScheduledAt = scheduledAt
		next.EndAt = scheduledAt.Add(time.Duration(newRec.Duration) * time.Minute)
		if patch.Modality != nil {
			next.Modality = *patch.Modality
		}
		if patch.Notes != nil {
			next.Notes = *patch.Notes
		}
		if patch.Price != nil {
			next.Price = patch.Price
		}
		futures = append(futures, next)
	}

	// Checagem de conflito antes de qualquer escrita: qualquer colisão
	// devolve o relatório completo e zero mutação
	conflicts, err := s.findShiftConflicts(ctx, rec, futures)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.Warn("recurrence.edit.future.conflict", out.LogFields{
			"recurrenceId": recurrenceID,
			"conflicts":    len(conflicts),
		})
		return &in.EditResult{Conflicts: conflicts}, nil
	}

	if err := s.storagePort.ApplySeriesPatch(ctx, &newRec, futures, removedIDs); err != nil {
		return nil, fmt.Errorf("recurrence.edit.future.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, futures)

	s.logger.Info("recurrence.edit.future.applied", out.LogFields{
		"recurrenceId": recurrenceID,
		"updated":      len(futures),
		"removed":      len(removedIDs),
	})

	return &in.EditResult{Updated: futures}, nil
}

// PreviewRemoved lista as ocorrências futuras que uma mudança de
// cadência removeria, para a interface avisar antes do passo destrutivo
func (s *RecurrenceService) PreviewRemoved(ctx context.Context, recurrenceID uuid.UUID, newType domain.RecurrenceType) ([]string, error) {
	rec, err := s.storagePort.GetRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	if newType == rec.RecurrenceType {
		return []string{}, nil
	}

	appointments, err := s.storagePort.GetRecurrenceAppointments(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}

	removed := futureOutsideCadence(appointments, newType, s.now())
	byID := make(map[uuid.UUID]domain.Appointment, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
	}

	dates := make([]string, 0, len(removed))
	for _, id := range removed {
		dates = append(dates, utils.ToDateString(byID[id].ScheduledAt))
	}
	return dates, nil
}

// futureOutsideCadence ancora a nova cadência na primeira ocorrência
// futura e marca as que não caem nas datas esperadas
func futureOutsideCadence(appointments []domain.Appointment, newType domain.RecurrenceType, now time.Time) []uuid.UUID {
	futures := make([]domain.Appointment, 0)
	var anchor, last time.Time
	for _, a := range appointments {
		if !a.ScheduledAt.After(now) {
			continue
		}
		day := utils.StartOfDay(a.ScheduledAt)
		if anchor.IsZero() || day.Before(anchor) {
			anchor = day
		}
		if day.After(last) {
			last = day
		}
		futures = append(futures, a)
	}
	if len(futures) == 0 {
		return nil
	}

	expected := make(map[string]struct{})
	for n := 0; n < maxMaterialized; n++ {
		date := nthOccurrence(newType, anchor, n)
		if date.After(last) {
			break
		}
		expected[utils.ToDateString(date)] = struct{}{}
	}

	removed := make([]uuid.UUID, 0)
	for _, a := range futures {
		if _, ok := expected[utils.ToDateString(a.ScheduledAt)]; !ok {
			removed = append(removed, a.ID)
		}
	}
	return removed
}

// findShiftConflicts verifica cada data futura proposta contra os
// agendamentos bloqueantes existentes de fora da série
func (s *RecurrenceService) findShiftConflicts(ctx context.Context, rec *domain.AppointmentRecurrence, futures []domain.Appointment) ([]domain.OccurrenceConflict, error) {
	if len(futures) == 0 {
		return nil, nil
	}

	from, to := futures[0].ScheduledAt, futures[0].EndAt
	for _, f := range futures {
		if f.ScheduledAt.Before(from) {
			from = f.ScheduledAt
		}
		if f.EndAt.After(to) {
			to = f.EndAt
		}
	}

	existing, err := s.storagePort.GetBlockingAppointments(ctx, rec.ProfessionalProfileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("recurrence.conflict_check.fetch_failed: %w", err)
	}

	conflicts := make([]domain.OccurrenceConflict, 0)
	for _, f := range futures {
		var with []uuid.UUID
		for _, a := range existing {
			if a.RecurrenceID != nil && *a.RecurrenceID == rec.ID {
				continue
			}
			if a.ID == f.ID {
				continue
			}
			if a.ScheduledAt.Before(f.EndAt) && a.EndAt.After(f.ScheduledAt) {
				with = append(with, a.ID)
			}
		}
		if len(with) > 0 {
			conflicts = append(conflicts, domain.OccurrenceConflict{
				Date:          utils.ToDateString(f.ScheduledAt),
				ConflictsWith: with,
			})
		}
	}
	return conflicts, nil
}
