package domain

type TimeSlot struct {
	Time         string        `json:"time"` // HH:mm
	IsAvailable  bool          `json:"isAvailable"`
	Appointments []Appointment `json:"appointments"`
	IsBlocked    bool          `json:"isBlocked"`
	BlockReason  string        `json:"blockReason,omitempty"`
	BiweeklyHint *BiweeklyHint `json:"biweeklyHint,omitempty"`
}

type FullDayBlock struct {
	Reason       string `json:"reason"`
	IsClinicWide bool   `json:"isClinicWide"`
}

// Resultado do cálculo de um dia: lista ordenada de slots ou bloqueio
// de dia inteiro (nunca os dois ao mesmo tempo).
type DaySlots struct {
	Slots        []TimeSlot    `json:"slots"`
	FullDayBlock *FullDayBlock `json:"fullDayBlock,omitempty"`
}
