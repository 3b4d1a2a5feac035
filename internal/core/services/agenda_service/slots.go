package agenda_service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// ComputeSlotsForDay calcula os slots de um dia de um profissional a
// partir de uma fotografia consistente: regras de disponibilidade,
// exceções, agendamentos, sessões de grupo e sugestões quinzenais.
// Função pura: lê a entrada, devolve saída nova, sem relógio nem estado.
//
// Ordem de prioridade (cada passo curto-circuita ou estreita o próximo):
//  1. bloqueio de dia inteiro
//  2. fallback sem regras (agendamentos continuam visíveis)
//  3. geração por passos fixos a partir das regras
//  4. bloqueio por exceção parcial (primeira que casa, na ordem do array)
//  5. ocupação por agendamento bloqueante ou sessão de grupo
//  6. slots sintéticos para agendamentos fora da grade
//  7. sugestão quinzenal nos slots livres e vazios
func ComputeSlotsForDay(
	day time.Time,
	rules []domain.AvailabilityRule,
	exceptions []domain.AvailabilityException,
	appointments []domain.Appointment,
	sessions []domain.GroupSession,
	hints []domain.BiweeklyHint,
	durationMinutes int,
	professionalID uuid.UUID,
) *domain.DaySlots {
	// 1. Bloqueio de dia inteiro encerra tudo
	if block := findFullDayBlock(day, exceptions); block != nil {
		return &domain.DaySlots{Slots: []domain.TimeSlot{}, FullDayBlock: block}
	}

	// Passo fora dos limites nunca alimenta o laço de geração; só os
	// agendamentos existentes aparecem
	if err := domain.ValidateSlotDuration(durationMinutes); err != nil {
		return &domain.DaySlots{Slots: slotsFromAppointmentsOnly(appointments)}
	}

	weekday := int(day.Weekday())
	activeRules := make([]domain.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive && r.DayOfWeek == weekday {
			activeRules = append(activeRules, r)
		}
	}

	// 2. Sem regras configuradas os agendamentos existentes ainda
	// precisam aparecer
	if len(activeRules) == 0 {
		return &domain.DaySlots{Slots: slotsFromAppointmentsOnly(appointments)}
	}

	slots := make([]domain.TimeSlot, 0)
	generatedTimes := make(map[string]struct{})

	// 3. Passos fixos do tamanho da duração, último slot inclusivo
	// quando termina exatamente no fim da regra. Regras sobrepostas
	// geram horários duplicados de propósito.
	for _, rule := range activeRules {
		ruleStart, err := utils.ClockToMinutes(rule.StartTime)
		if err != nil {
			continue
		}
		ruleEnd, err := utils.ClockToMinutes(rule.EndTime)
		if err != nil {
			continue
		}

		for cur := ruleStart; cur+durationMinutes <= ruleEnd; cur += durationMinutes {
			clock := utils.MinutesToClock(cur)
			generatedTimes[clock] = struct{}{}
			slots = append(slots, buildSlot(day, clock, cur, exceptions, appointments, sessions, professionalID))
		}
	}

	// 6. Agendamentos fora da grade ganham slot sintético indisponível
	synthesized := make(map[string]struct{})
	for _, a := range appointments {
		clock := clockOf(a.ScheduledAt)
		if _, ok := generatedTimes[clock]; ok {
			continue
		}
		if _, ok := synthesized[clock]; ok {
			continue
		}
		synthesized[clock] = struct{}{}

		slot := domain.TimeSlot{
			Time:         clock,
			IsAvailable:  false,
			Appointments: appointmentsAt(appointments, clock),
		}
		if ex := findBlockingException(day, exceptions, clock); ex != nil {
			slot.IsBlocked = true
			slot.BlockReason = ex.Reason
		}
		slots = append(slots, slot)
	}

	slots = SlotSlice(slots).quickSort()

	// 7. Sugestão quinzenal só em slot livre e vazio; nunca muda
	// disponibilidade
	for i := range slots {
		if !slots[i].IsAvailable || len(slots[i].Appointments) > 0 {
			continue
		}
		slots[i].BiweeklyHint = matchHint(hints, slots[i].Time, professionalID)
	}

	return &domain.DaySlots{Slots: slots}
}

func buildSlot(
	day time.Time,
	clock string,
	slotMin int,
	exceptions []domain.AvailabilityException,
	appointments []domain.Appointment,
	sessions []domain.GroupSession,
	professionalID uuid.UUID,
) domain.TimeSlot {
	slot := domain.TimeSlot{
		Time:         clock,
		IsAvailable:  true,
		Appointments: appointmentsAt(appointments, clock),
	}

	// 4. Exceção parcial bloqueia o slot
	if ex := findBlockingException(day, exceptions, clock); ex != nil {
		slot.IsBlocked = true
		slot.BlockReason = ex.Reason
		slot.IsAvailable = false
	}

	// 5. Agendamento bloqueante que começa exatamente nesse horário
	for _, a := range slot.Appointments {
		if a.IsBlocking() {
			slot.IsAvailable = false
			break
		}
	}

	// 5. Sessão de grupo ocupa todo o intervalo dela para o profissional
	if slot.IsAvailable {
		for _, session := range sessions {
			if sessionBlocksProfessional(session, professionalID) && sessionOccupiesMinute(session, day, slotMin) {
				slot.IsAvailable = false
				break
			}
		}
	}

	return slot
}

// Um slot sintético indisponível por horário de início distinto, em
// ordem, para o dia sem modelo de disponibilidade
func slotsFromAppointmentsOnly(appointments []domain.Appointment) []domain.TimeSlot {
	if len(appointments) == 0 {
		return []domain.TimeSlot{}
	}

	seen := make(map[string]struct{})
	times := make([]string, 0)
	for _, a := range appointments {
		clock := clockOf(a.ScheduledAt)
		if _, ok := seen[clock]; ok {
			continue
		}
		seen[clock] = struct{}{}
		times = append(times, clock)
	}
	sort.Strings(times)

	slots := make([]domain.TimeSlot, 0, len(times))
	for _, clock := range times {
		slots = append(slots, domain.TimeSlot{
			Time:         clock,
			IsAvailable:  false,
			Appointments: appointmentsAt(appointments, clock),
		})
	}
	return slots
}

func matchHint(hints []domain.BiweeklyHint, clock string, professionalID uuid.UUID) *domain.BiweeklyHint {
	for i, h := range hints {
		if h.Time != clock {
			continue
		}
		if professionalID != uuid.Nil && h.ProfessionalProfileID != professionalID {
			continue
		}
		return &hints[i]
	}
	return nil
}
