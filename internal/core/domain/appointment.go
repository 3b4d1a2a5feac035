package domain

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID                      uuid.UUID         `json:"id"`
	ClinicID                uuid.UUID         `json:"clinicId"`
	ProfessionalProfileID   uuid.UUID         `json:"professionalProfileId"`
	PatientID               *uuid.UUID        `json:"patientId,omitempty"`
	PatientName             string            `json:"patientName,omitempty"`
	ScheduledAt             time.Time         `json:"scheduledAt"`
	EndAt                   time.Time         `json:"endAt"`
	Status                  AppointmentStatus `json:"status"`
	Type                    AppointmentType   `json:"type"`
	BlocksTime              bool              `json:"blocksTime"`
	Modality                Modality          `json:"modality,omitempty"`
	GroupID                 *uuid.UUID        `json:"groupId,omitempty"`
	RecurrenceID            *uuid.UUID        `json:"recurrenceId,omitempty"`
	AdditionalProfessionals []uuid.UUID       `json:"additionalProfessionals,omitempty"`
	CancelReason            string            `json:"cancelReason,omitempty"`
	Notes                   string            `json:"notes,omitempty"`
	Price                   *float64          `json:"price,omitempty"`
}

// Ocupa horário na agenda: precisa bloquear tempo e não estar cancelado
func (a Appointment) IsBlocking() bool {
	return a.BlocksTime && !a.Status.IsCancelled()
}

// Sugestão da semana alternada de uma série quinzenal.
// Somente informativa, nunca bloqueia horário.
type BiweeklyHint struct {
	Time                  string    `json:"time"`
	ProfessionalProfileID uuid.UUID `json:"professionalProfileId"`
	PatientName           string    `json:"patientName"`
	AppointmentID         uuid.UUID `json:"appointmentId"`
}

// Consentimento do paciente para canais de notificação.
// Sem consentimento a notificação é descartada, mesmo que solicitada.
type PatientConsent struct {
	WhatsApp bool `json:"whatsapp"`
	Email    bool `json:"email"`
}

type NotificationChannel string

const (
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
	NotificationChannelEmail    NotificationChannel = "email"
)

// Decisão de notificação já resolvida (canal, template, destinatário).
// A entrega em si fica fora do núcleo.
type NotificationDecision struct {
	Channel       NotificationChannel `json:"channel"`
	Template      string              `json:"template"`
	Recipient     string              `json:"recipient"`
	AppointmentID uuid.UUID           `json:"appointmentId"`
}
