package in

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

type CancelCommand struct {
	AppointmentID     uuid.UUID                `json:"appointmentId"`
	TargetStatus      domain.AppointmentStatus `json:"targetStatus"`
	Reason            string                   `json:"reason"`
	CancelType        domain.CancelType        `json:"cancelType"`
	NotifyPatient     bool                     `json:"notifyPatient"`
	Consent           domain.PatientConsent    `json:"consent"`
	RecipientWhatsApp string                   `json:"recipientWhatsapp,omitempty"`
	RecipientEmail    string                   `json:"recipientEmail,omitempty"`
}

type CancelResult struct {
	UpdatedIDs    []uuid.UUID                   `json:"updatedIds"`
	Notifications []domain.NotificationDecision `json:"notifications"`
}

type AgendaUseCase interface {
	// Slots de um dia de um profissional
	GetDaySlots(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*domain.DaySlots, error)

	// Grade de meia em meia hora de todos os profissionais (visão admin)
	GetMultiProfessionalGrid(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.TimeSlot, error)

	// Cancelamento de uma ocorrência ou da série daqui pra frente
	CancelAppointment(ctx context.Context, cmd CancelCommand) (*CancelResult, error)

	// Invalidação do cache de slots de um dia (eventos de agendamento)
	InvalidateDaySlots(ctx context.Context, professionalID uuid.UUID, date string)
}
