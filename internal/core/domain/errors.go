package domain

import (
	"errors"
	"fmt"
)

// Recurso referenciado não existe; propagado sem alteração da camada de dados
var ErrNotFound = errors.New("recurso não encontrado")

// Entrada malformada, rejeitada antes de qualquer cálculo
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validação: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Colisão com agendamentos existentes; nenhuma mutação parcial é aplicada
type ConflictError struct {
	Conflicts []OccurrenceConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflito de agenda em %d data(s)", len(e.Conflicts))
}

// Limites de duração em minutos. Consultas de paciente têm piso maior.
const (
	MinDuration         = 5
	MinDurationConsulta = 15
	MaxDuration         = 480
)

func ValidateDuration(appointmentType AppointmentType, minutes int) error {
	min := MinDuration
	if appointmentType == AppointmentTypeConsulta {
		min = MinDurationConsulta
	}
	if minutes < min || minutes > MaxDuration {
		return NewValidationError("duration", fmt.Sprintf("fora do intervalo [%d, %d]", min, MaxDuration))
	}
	return nil
}

// ValidateSlotDuration valida o passo da grade de slots, que não está
// amarrado a um tipo de agendamento
func ValidateSlotDuration(minutes int) error {
	if minutes < MinDuration || minutes > MaxDuration {
		return NewValidationError("duration", fmt.Sprintf("fora do intervalo [%d, %d]", MinDuration, MaxDuration))
	}
	return nil
}
