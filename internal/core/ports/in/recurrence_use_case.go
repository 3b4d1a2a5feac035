package in

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

type ExceptionAction string

const (
	ExceptionActionSkip   ExceptionAction = "skip"
	ExceptionActionUnskip ExceptionAction = "unskip"
)

// Resultado da expansão de uma série. ConflictAt aponta o índice da
// primeira ocorrência em conflito (-1 quando não há); em conflito nada
// é persistido.
type ExpandResult struct {
	OccurrenceDates []string `json:"occurrenceDates,omitempty"`
	ConflictAt      int      `json:"conflictAt"`
}

type CreateSeriesCommand struct {
	Recurrence  domain.AppointmentRecurrence `json:"recurrence"`
	FirstDate   time.Time                    `json:"firstDate"`
	ClinicID    uuid.UUID                    `json:"clinicId"`
	PatientID   *uuid.UUID                   `json:"patientId,omitempty"`
	PatientName string                       `json:"patientName,omitempty"`
	Type        domain.AppointmentType       `json:"type"`
	Modality    domain.Modality              `json:"modality,omitempty"`
	Price       *float64                     `json:"price,omitempty"`
}

// Ou Updated ou Conflicts, nunca os dois: conflito significa zero mutação
type EditResult struct {
	Updated   []domain.Appointment        `json:"updated,omitempty"`
	Conflicts []domain.OccurrenceConflict `json:"conflicts,omitempty"`
}

type ToggleResult struct {
	Exceptions            []string  `json:"exceptions"`
	AffectedAppointmentID uuid.UUID `json:"affectedAppointmentId"`
	Changed               bool      `json:"changed"`
	Message               string    `json:"message,omitempty"`
}

type FinalizeResult struct {
	Changed      bool        `json:"changed"`
	Message      string      `json:"message,omitempty"`
	CancelledIDs []uuid.UUID `json:"cancelledIds,omitempty"`
}

type RecurrenceUseCase interface {
	// Expande e persiste uma série nova, tudo-ou-nada
	CreateSeries(ctx context.Context, cmd CreateSeriesCommand) (*ExpandResult, error)

	// Edita uma ocorrência ou a série daqui pra frente
	ApplyEdit(ctx context.Context, recurrenceID uuid.UUID, patch domain.RecurrencePatch, scope domain.EditScope) (*EditResult, error)

	// Prévia das ocorrências futuras que não cabem numa nova cadência
	PreviewRemoved(ctx context.Context, recurrenceID uuid.UUID, newType domain.RecurrenceType) ([]string, error)

	// Pula/despula uma data da série
	ToggleException(ctx context.Context, recurrenceID uuid.UUID, date string, action ExceptionAction) (*ToggleResult, error)

	// Encerra a série numa data (ou imediatamente quando endDate é nulo)
	Finalize(ctx context.Context, recurrenceID uuid.UUID, endDate *time.Time, cancelBeyond bool) (*FinalizeResult, error)

	// Rematerializa ocorrências de séries INDEFINITE dentro do horizonte
	ExtendHorizon(ctx context.Context, recurrenceID uuid.UUID) (*ExpandResult, error)
}
