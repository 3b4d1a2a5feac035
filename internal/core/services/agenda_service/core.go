package agenda_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

type AgendaService struct {
	storagePort  out.StoragePort
	cachePort    out.CachePort
	notifierPort out.NotifierPort
	logger       out.LoggerPort
	cfg          *config.Config
}

func NewAgendaService(
	storagePort out.StoragePort,
	cachePort out.CachePort,
	notifierPort out.NotifierPort,
	cfg *config.Config,
	logger out.LoggerPort,
) *AgendaService {
	return &AgendaService{
		storagePort:  storagePort,
		cachePort:    cachePort,
		notifierPort: notifierPort,
		cfg:          cfg,
		logger:       logger.WithModule("AgendaService"),
	}
}

func (s *AgendaService) GetDaySlots(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*domain.DaySlots, error) {
	if err := domain.ValidateSlotDuration(s.cfg.Agenda.DefaultDurationMinutes); err != nil {
		return nil, err
	}

	date := utils.ToDateString(day)

	s.logger.Info("agenda.slots.started", out.LogFields{
		"professionalId": professionalID,
		"date":           date,
	})

	// Cache só quando habilitado
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if cached, exists := s.cachePort.GetDaySlots(ctx, professionalID, date); exists {
			s.logger.Debug("agenda.slots.cache.hit", out.LogFields{
				"professionalId": professionalID,
				"date":           date,
				"slotsCount":     len(cached.Slots),
			})
			return cached, nil
		}
		s.logger.Debug("agenda.slots.cache.miss", out.LogFields{
			"professionalId": professionalID,
			"date":           date,
		})
	}

	snapshot, err := s.storagePort.GetDaySnapshot(ctx, clinicID, professionalID, day)
	if err != nil {
		s.logger.Error("agenda.slots.snapshot.fetch_failed", out.LogFields{
			"professionalId": professionalID,
			"date":           date,
			"error":          err.Error(),
		})
		return nil, fmt.Errorf("agenda.slots.snapshot.fetch_failed: %w", err)
	}

	result := ComputeSlotsForDay(
		day,
		snapshot.Rules,
		snapshot.Exceptions,
		snapshot.Appointments,
		snapshot.GroupSessions,
		snapshot.BiweeklyHints,
		s.cfg.Agenda.DefaultDurationMinutes,
		professionalID,
	)

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.StoreDaySlots(ctx, professionalID, date, result)
	}

	return result, nil
}

func (s *AgendaService) GetMultiProfessionalGrid(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.TimeSlot, error) {
	date := utils.ToDateString(day)

	s.logger.Info("agenda.grid.started", out.LogFields{
		"clinicId": clinicID,
		"date":     date,
	})

	appointments, err := s.storagePort.GetClinicAppointments(ctx, clinicID, day)
	if err != nil {
		s.logger.Error("agenda.grid.appointments.fetch_failed", out.LogFields{
			"clinicId": clinicID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("agenda.grid.appointments.fetch_failed: %w", err)
	}

	sessions, err := s.storagePort.GetClinicGroupSessions(ctx, clinicID, day)
	if err != nil {
		s.logger.Error("agenda.grid.sessions.fetch_failed", out.LogFields{
			"clinicId": clinicID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("agenda.grid.sessions.fetch_failed: %w", err)
	}

	return ComputeMultiProfessionalGrid(day, appointments, sessions), nil
}

func (s *AgendaService) InvalidateDaySlots(ctx context.Context, professionalID uuid.UUID, date string) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}

	s.logger.Debug("agenda.slots.cache.invalidate", out.LogFields{
		"professionalId": professionalID,
		"date":           date,
	})
	s.cachePort.InvalidateDay(ctx, professionalID, date)
}
