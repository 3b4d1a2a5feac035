package out

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

// Fotografia consistente de um dia de um profissional, lida de uma vez
// antes de qualquer cálculo
type DaySnapshot struct {
	Rules         []domain.AvailabilityRule
	Exceptions    []domain.AvailabilityException
	Appointments  []domain.Appointment
	GroupSessions []domain.GroupSession
	BiweeklyHints []domain.BiweeklyHint
}

type StoragePort interface {
	// Leituras escopadas por clínica/profissional/dia
	GetDaySnapshot(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*DaySnapshot, error)
	GetClinicAppointments(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.Appointment, error)
	GetClinicGroupSessions(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.GroupSession, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetRecurrence(ctx context.Context, id uuid.UUID) (*domain.AppointmentRecurrence, error)
	GetRecurrenceAppointments(ctx context.Context, recurrenceID uuid.UUID) ([]domain.Appointment, error)

	// Agendamentos bloqueantes de um profissional num intervalo, para
	// checagem de conflito de séries
	GetBlockingAppointments(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Appointment, error)

	// Escritas multi-linha são tudo-ou-nada dentro de uma transação;
	// em conflito, zero linhas mudam
	CreateSeries(ctx context.Context, recurrence *domain.AppointmentRecurrence, appointments []domain.Appointment) error
	CreateAppointments(ctx context.Context, appointments []domain.Appointment) error
	ApplySeriesPatch(ctx context.Context, recurrence *domain.AppointmentRecurrence, updated []domain.Appointment, removedIDs []uuid.UUID) error
	UpdateAppointment(ctx context.Context, appointment *domain.Appointment) error
	UpdateAppointments(ctx context.Context, appointments []domain.Appointment) error
}
