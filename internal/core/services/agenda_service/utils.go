package agenda_service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Horário HH:mm de um instante, nos campos locais
func clockOf(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Exceção casa com o dia por data exata (não recorrente) ou por dia da
// semana (recorrente)
func exceptionMatchesDay(ex domain.AvailabilityException, day time.Time) bool {
	if ex.IsRecurring {
		return ex.DayOfWeek != nil && *ex.DayOfWeek == int(day.Weekday())
	}
	return ex.Date != nil && utils.SameDay(*ex.Date, day)
}

// Bloqueio de dia inteiro: indisponível e sem faixa de horário
func isFullDayBlock(ex domain.AvailabilityException) bool {
	return !ex.IsAvailable && ex.StartTime == nil && ex.EndTime == nil
}

// Primeira exceção de dia inteiro que casa com o dia, na ordem do array.
// A ordem de entrada decide quando mais de uma se aplica.
func findFullDayBlock(day time.Time, exceptions []domain.AvailabilityException) *domain.FullDayBlock {
	for _, ex := range exceptions {
		if isFullDayBlock(ex) && exceptionMatchesDay(ex, day) {
			return &domain.FullDayBlock{Reason: ex.Reason, IsClinicWide: ex.IsClinicWide}
		}
	}
	return nil
}

// Primeira exceção parcial cuja faixa [startTime, endTime) contém o
// horário do slot.
//
// TODO: quando mais de uma exceção cobre o mesmo horário vale a primeira
// da lista (ordem de criação); decidir com o produto se a mais restritiva
// deveria ganhar — vale também para o bloqueio de dia inteiro acima.
func findBlockingException(day time.Time, exceptions []domain.AvailabilityException, slotClock string) *domain.AvailabilityException {
	slotMin, err := utils.ClockToMinutes(slotClock)
	if err != nil {
		return nil
	}

	for i, ex := range exceptions {
		if ex.IsAvailable || isFullDayBlock(ex) || !exceptionMatchesDay(ex, day) {
			continue
		}
		if ex.StartTime == nil || ex.EndTime == nil {
			continue
		}

		start, err := utils.ClockToMinutes(*ex.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ClockToMinutes(*ex.EndTime)
		if err != nil {
			continue
		}

		if slotMin >= start && slotMin < end {
			return &exceptions[i]
		}
	}
	return nil
}

// Sessão de grupo bloqueia o próprio profissional e os adicionais,
// nunca a agenda de terceiros
func sessionBlocksProfessional(session domain.GroupSession, professionalID uuid.UUID) bool {
	if session.ProfessionalProfileID == professionalID {
		return true
	}
	for _, id := range session.AdditionalProfessionals {
		if id == professionalID {
			return true
		}
	}
	return false
}

// Minuto do slot dentro de [início, fim) da sessão no mesmo dia
func sessionOccupiesMinute(session domain.GroupSession, day time.Time, slotMin int) bool {
	if !utils.SameDay(session.ScheduledAt, day) {
		return false
	}

	startMin := session.ScheduledAt.Hour()*60 + session.ScheduledAt.Minute()
	endMin := session.EndAt.Hour()*60 + session.EndAt.Minute()
	if !utils.SameDay(session.EndAt, day) {
		endMin = 24 * 60
	}

	return slotMin >= startMin && slotMin < endMin
}

// Todos os agendamentos que começam exatamente nesse horário, inclusive
// os não bloqueantes e os cancelados (continuam visíveis)
func appointmentsAt(appointments []domain.Appointment, clock string) []domain.Appointment {
	matched := make([]domain.Appointment, 0)
	for _, a := range appointments {
		if clockOf(a.ScheduledAt) == clock {
			matched = append(matched, a)
		}
	}
	return matched
}
