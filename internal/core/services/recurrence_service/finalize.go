package recurrence_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Finalize encerra uma série. Com endDate nulo a série é desativada na
// hora; com endDate ela passa a BY_DATE naquela data e, quando
// cancelBeyond é true, as ocorrências futuras além da data são
// canceladas pelo profissional.
func (s *RecurrenceService) Finalize(ctx context.Context, recurrenceID uuid.UUID, endDate *time.Time, cancelBeyond bool) (*in.FinalizeResult, error) {
	rec, err := s.storagePort.GetRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}

	// Finalizar série já encerrada é no-op, não erro
	if !rec.IsActive {
		return &in.FinalizeResult{Changed: false, Message: "série já encerrada"}, nil
	}

	if endDate == nil {
		rec.IsActive = false
		if err := s.storagePort.ApplySeriesPatch(ctx, rec, nil, nil); err != nil {
			return nil, fmt.Errorf("recurrence.finalize.persist_failed: %w", err)
		}
		s.logger.Info("recurrence.finalized", out.LogFields{"recurrenceId": recurrenceID})
		return &in.FinalizeResult{Changed: true}, nil
	}

	limit := utils.StartOfDay(*endDate)
	rec.RecurrenceEndType = domain.RecurrenceEndByDate
	rec.EndDate = &limit
	rec.Occurrences = nil

	cancelled := make([]domain.Appointment, 0)
	cancelledIDs := make([]uuid.UUID, 0)
	if cancelBeyond {
		appointments, err := s.storagePort.GetRecurrenceAppointments(ctx, recurrenceID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		for _, a := range appointments {
			if !a.ScheduledAt.After(now) {
				continue
			}
			if !utils.StartOfDay(a.ScheduledAt).After(limit) {
				continue
			}
			if a.Status.IsCancelled() || a.Status == domain.AppointmentStatusFinalizado {
				continue
			}
			a.Status = domain.AppointmentStatusCanceladoProfissional
			a.CancelReason = "Série encerrada"
			a.BlocksTime = false
			cancelled = append(cancelled, a)
			cancelledIDs = append(cancelledIDs, a.ID)
		}
	}

	if err := s.storagePort.ApplySeriesPatch(ctx, rec, cancelled, nil); err != nil {
		return nil, fmt.Errorf("recurrence.finalize.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, cancelled)
	s.logger.Info("recurrence.finalized", out.LogFields{
		"recurrenceId": recurrenceID,
		"endDate":      utils.ToDateString(limit),
		"cancelled":    len(cancelledIDs),
	})

	return &in.FinalizeResult{Changed: true, CancelledIDs: cancelledIDs}, nil
}
