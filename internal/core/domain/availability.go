package domain

import (
	"time"

	"github.com/google/uuid"
)

// Modelo semanal recorrente de atendimento de um profissional.
// Pode haver mais de uma regra por dia (manhã/tarde separadas).
type AvailabilityRule struct {
	ID                    uuid.UUID `json:"id"`
	ProfessionalProfileID uuid.UUID `json:"professionalProfileId"`
	DayOfWeek             int       `json:"dayOfWeek"` // 0=domingo .. 6=sábado
	StartTime             string    `json:"startTime"` // HH:mm
	EndTime               string    `json:"endTime"`   // HH:mm
	IsActive              bool      `json:"isActive"`
}

// Exceção de disponibilidade: data única ou recorrente por dia da semana.
// isAvailable=false com StartTime e EndTime nulos bloqueia o dia inteiro.
type AvailabilityException struct {
	ID                    uuid.UUID  `json:"id"`
	ProfessionalProfileID uuid.UUID  `json:"professionalProfileId"`
	Date                  *time.Time `json:"date,omitempty"`
	DayOfWeek             *int       `json:"dayOfWeek,omitempty"`
	IsRecurring           bool       `json:"isRecurring"`
	IsAvailable           bool       `json:"isAvailable"`
	StartTime             *string    `json:"startTime,omitempty"` // HH:mm
	EndTime               *string    `json:"endTime,omitempty"`   // HH:mm
	Reason                string     `json:"reason,omitempty"`
	IsClinicWide          bool       `json:"isClinicWide"`
}
