package domain

import (
	"time"

	"github.com/google/uuid"
)

type GroupSessionParticipant struct {
	AppointmentID uuid.UUID         `json:"appointmentId"`
	PatientName   string            `json:"patientName"`
	Status        AppointmentStatus `json:"status"`
}

// Agregado de leitura: agendamentos que compartilham groupId e scheduledAt.
// Ocupa o horário inteiro do profissional independente do status dos
// participantes, mas não bloqueia a agenda de outro profissional a menos
// que ele esteja em AdditionalProfessionals.
type GroupSession struct {
	GroupID                 uuid.UUID                 `json:"groupId"`
	GroupName               string                    `json:"groupName"`
	ScheduledAt             time.Time                 `json:"scheduledAt"`
	EndAt                   time.Time                 `json:"endAt"`
	ProfessionalProfileID   uuid.UUID                 `json:"professionalProfileId"`
	Participants            []GroupSessionParticipant `json:"participants"`
	AdditionalProfessionals []uuid.UUID               `json:"additionalProfessionals,omitempty"`
}
