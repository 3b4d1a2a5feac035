package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

type CachePort interface {
	// Cache dos slots calculados de um dia (chave: profissional + data ISO)
	GetDaySlots(ctx context.Context, professionalID uuid.UUID, date string) (*domain.DaySlots, bool)
	StoreDaySlots(ctx context.Context, professionalID uuid.UUID, date string, slots *domain.DaySlots)
	InvalidateDay(ctx context.Context, professionalID uuid.UUID, date string)
	InvalidateProfessional(ctx context.Context, professionalID uuid.UUID)
}
