package agenda_service

import "github.com/agendaclin/agenda-slots-engine/internal/core/domain"

type SlotSlice []domain.TimeSlot

// quickSort ordena por horário HH:mm; a comparação lexicográfica é
// correta porque os horários têm zero à esquerda. Horários duplicados
// (regras sobrepostas) mantêm a ordem de entrada e não são removidos.
func (s SlotSlice) quickSort() SlotSlice {
	if len(s) < 2 {
		return s
	}

	pivot := s[len(s)/2]

	less := SlotSlice{}
	equal := SlotSlice{}
	greater := SlotSlice{}

	for _, slot := range s {
		if slot.Time < pivot.Time {
			less = append(less, slot)
		} else if slot.Time == pivot.Time {
			equal = append(equal, slot)
		} else {
			greater = append(greater, slot)
		}
	}

	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
