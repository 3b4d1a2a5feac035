package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/json_types"
)

type RecurrenceType string

const (
	RecurrenceTypeWeekly   RecurrenceType = "WEEKLY"
	RecurrenceTypeBiweekly RecurrenceType = "BIWEEKLY"
	RecurrenceTypeMonthly  RecurrenceType = "MONTHLY"
)

type RecurrenceEndType string

const (
	RecurrenceEndByDate        RecurrenceEndType = "BY_DATE"
	RecurrenceEndByOccurrences RecurrenceEndType = "BY_OCCURRENCES"
	RecurrenceEndIndefinite    RecurrenceEndType = "INDEFINITE"
)

// Limite de ocorrências de uma série com fim BY_OCCURRENCES
const MaxOccurrences = 52

// Template de uma série recorrente. Exatamente um entre Occurrences e
// EndDate é significativo, conforme RecurrenceEndType; INDEFINITE ignora
// os dois e depende do horizonte rolante de materialização.
type AppointmentRecurrence struct {
	ID                    uuid.UUID           `json:"id"`
	ProfessionalProfileID uuid.UUID           `json:"professionalProfileId"`
	RecurrenceType        RecurrenceType      `json:"recurrenceType"`
	RecurrenceEndType     RecurrenceEndType   `json:"recurrenceEndType"`
	DayOfWeek             int                 `json:"dayOfWeek"`
	StartTime             string              `json:"startTime"` // HH:mm
	EndTime               string              `json:"endTime"`   // HH:mm
	Duration              int                 `json:"duration"`  // minutos
	Occurrences           *int                `json:"occurrences,omitempty"`
	EndDate               *time.Time          `json:"endDate,omitempty"`
	IsActive              bool                `json:"isActive"`
	Exceptions            json_types.DateSet  `json:"exceptions"`
}

// Alterações aplicáveis a uma ocorrência ou à série daqui pra frente.
// Campos nulos não mudam nada. OccurrenceID é obrigatório no escopo
// "occurrence" e ignorado no escopo "future".
type RecurrencePatch struct {
	OccurrenceID      *uuid.UUID         `json:"occurrenceId,omitempty"`
	StartTime         *string            `json:"startTime,omitempty"`
	EndTime           *string            `json:"endTime,omitempty"`
	DayOfWeek         *int               `json:"dayOfWeek,omitempty"`
	Modality          *Modality          `json:"modality,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	Price             *float64           `json:"price,omitempty"`
	RecurrenceType    *RecurrenceType    `json:"recurrenceType,omitempty"`
	RecurrenceEndType *RecurrenceEndType `json:"recurrenceEndType,omitempty"`
	Occurrences       *int               `json:"occurrences,omitempty"`
	EndDate           *time.Time         `json:"endDate,omitempty"`
}

type EditScope string

const (
	EditScopeOccurrence EditScope = "occurrence"
	EditScopeFuture     EditScope = "future"
)

// Conflito de uma data deslocada/gerada com agendamentos existentes
type OccurrenceConflict struct {
	Date          string      `json:"date"` // YYYY-MM-DD
	ConflictsWith []uuid.UUID `json:"conflictsWith"`
}
