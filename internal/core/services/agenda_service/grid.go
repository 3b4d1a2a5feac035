package agenda_service

import (
	"time"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Grade fixa da visão "todos os profissionais": 07:00–21:00 de meia em
// meia hora, ignorando regras e exceções individuais
const (
	gridStartMinute = 7 * 60
	gridEndMinute   = 21 * 60
	gridStepMinutes = 30
)

// ComputeMultiProfessionalGrid monta a visão administrativa de todos os
// profissionais: cada célula junta os agendamentos que começam dentro da
// janela de 30 minutos. É um panorama, não uma superfície de marcação:
// marcar a partir daqui exige antes escolher um profissional.
func ComputeMultiProfessionalGrid(
	day time.Time,
	appointments []domain.Appointment,
	sessions []domain.GroupSession,
) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0, (gridEndMinute-gridStartMinute)/gridStepMinutes)

	for cur := gridStartMinute; cur < gridEndMinute; cur += gridStepMinutes {
		slot := domain.TimeSlot{
			Time:         utils.MinutesToClock(cur),
			IsAvailable:  true,
			Appointments: make([]domain.Appointment, 0),
		}

		for _, a := range appointments {
			if !utils.SameDay(a.ScheduledAt, day) {
				continue
			}
			startMin := a.ScheduledAt.Hour()*60 + a.ScheduledAt.Minute()
			if startMin < cur || startMin >= cur+gridStepMinutes {
				continue
			}
			slot.Appointments = append(slot.Appointments, a)
			if a.IsBlocking() {
				slot.IsAvailable = false
			}
		}

		// Sessão de grupo começando na janela ocupa a célula
		if slot.IsAvailable {
			for _, session := range sessions {
				if !utils.SameDay(session.ScheduledAt, day) {
					continue
				}
				startMin := session.ScheduledAt.Hour()*60 + session.ScheduledAt.Minute()
				if startMin >= cur && startMin < cur+gridStepMinutes {
					slot.IsAvailable = false
					break
				}
			}
		}

		slots = append(slots, slot)
	}

	return slots
}
