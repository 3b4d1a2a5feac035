package recurrence_service

import (
	"time"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

type RecurrenceService struct {
	storagePort out.StoragePort
	cachePort   out.CachePort
	logger      out.LoggerPort
	cfg         *config.Config

	// relógio injetado para decidir "já ocorreu" de forma determinística
	now func() time.Time
}

func NewRecurrenceService(
	storagePort out.StoragePort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *RecurrenceService {
	return &RecurrenceService{
		storagePort: storagePort,
		cachePort:   cachePort,
		cfg:         cfg,
		logger:      logger.WithModule("RecurrenceService"),
		now:         time.Now,
	}
}

// WithClock troca o relógio do serviço (testes)
func (s *RecurrenceService) WithClock(now func() time.Time) *RecurrenceService {
	s.now = now
	return s
}
