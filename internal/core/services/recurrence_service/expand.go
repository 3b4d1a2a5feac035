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

// Teto de materialização para fins BY_DATE; evita laço sem fim com datas
// de término absurdas
const maxMaterialized = 520

// nthOccurrence calcula a n-ésima data da série a partir da primeira.
// Mensal usa AddMonths da data base, então o dia do mês não deriva com
// os meses curtos (31/01 -> 28/02 -> 31/03).
func nthOccurrence(recurrenceType domain.RecurrenceType, firstDate time.Time, n int) time.Time {
	switch recurrenceType {
	case domain.RecurrenceTypeWeekly:
		return firstDate.AddDate(0, 0, 7*n)
	case domain.RecurrenceTypeBiweekly:
		return firstDate.AddDate(0, 0, 14*n)
	case domain.RecurrenceTypeMonthly:
		return utils.AddMonths(firstDate, n)
	}
	return firstDate
}

// ExpandOccurrences expande as datas de uma série a partir da primeira.
// Função pura; "agora" entra como parâmetro. Datas presentes nas
// exceções da série são puladas. INDEFINITE materializa só até o
// horizonte rolante; quem chama reestende periodicamente.
func ExpandOccurrences(rec *domain.AppointmentRecurrence, firstDate time.Time, now time.Time, horizonMonths int) ([]time.Time, error) {
	switch rec.RecurrenceType {
	case domain.RecurrenceTypeWeekly, domain.RecurrenceTypeBiweekly, domain.RecurrenceTypeMonthly:
	default:
		return nil, domain.NewValidationError("recurrenceType", fmt.Sprintf("tipo desconhecido %q", rec.RecurrenceType))
	}

	var wanted int
	var until time.Time

	switch rec.RecurrenceEndType {
	case domain.RecurrenceEndByOccurrences:
		if rec.Occurrences == nil {
			return nil, domain.NewValidationError("occurrences", "obrigatório para BY_OCCURRENCES")
		}
		if *rec.Occurrences < 1 || *rec.Occurrences > domain.MaxOccurrences {
			return nil, domain.NewValidationError("occurrences",
				fmt.Sprintf("fora do intervalo [1, %d]", domain.MaxOccurrences))
		}
		wanted = *rec.Occurrences
	case domain.RecurrenceEndByDate:
		if rec.EndDate == nil {
			return nil, domain.NewValidationError("endDate", "obrigatório para BY_DATE")
		}
		until = utils.StartOfDay(*rec.EndDate)
	case domain.RecurrenceEndIndefinite:
		until = utils.AddMonths(utils.StartOfDay(now), horizonMonths)
	default:
		return nil, domain.NewValidationError("recurrenceEndType", fmt.Sprintf("tipo desconhecido %q", rec.RecurrenceEndType))
	}

	dates := make([]time.Time, 0)
	if wanted > 0 {
		// Datas puladas continuam contando como posição da série
		for n := 0; n < wanted; n++ {
			date := nthOccurrence(rec.RecurrenceType, firstDate, n)
			if rec.Exceptions.Contains(utils.ToDateString(date)) {
				continue
			}
			dates = append(dates, date)
		}
		return dates, nil
	}

	for n := 0; n < maxMaterialized; n++ {
		date := nthOccurrence(rec.RecurrenceType, firstDate, n)
		if date.After(until) {
			break
		}
		if rec.Exceptions.Contains(utils.ToDateString(date)) {
			continue
		}
		dates = append(dates, date)
	}

	return dates, nil
}

// CreateSeries expande, checa conflito por ocorrência e persiste tudo em
// uma transação. Em conflito nada é criado e o índice da ocorrência que
// falhou volta para quem chamou.
func (s *RecurrenceService) CreateSeries(ctx context.Context, cmd in.CreateSeriesCommand) (*in.ExpandResult, error) {
	rec := cmd.Recurrence

	if err := domain.ValidateDuration(cmd.Type, rec.Duration); err != nil {
		return nil, err
	}
	if _, err := utils.ClockToMinutes(rec.StartTime); err != nil {
		return nil, domain.NewValidationError("startTime", err.Error())
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Exceptions == nil {
		rec.Exceptions = make(map[string]struct{})
	}
	rec.IsActive = true
	rec.DayOfWeek = int(cmd.FirstDate.Weekday())
	duration := rec.Duration
	rec.EndTime = utils.CalculateEndTime(rec.StartTime, &duration)

	dates, err := ExpandOccurrences(&rec, utils.StartOfDay(cmd.FirstDate), s.now(), s.cfg.Agenda.RecurrenceHorizonMonths)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, domain.NewValidationError("firstDate", "série não gera nenhuma ocorrência")
	}

	appointments := make([]domain.Appointment, 0, len(dates))
	occurrenceDates := make([]string, 0, len(dates))
	for _, date := range dates {
		scheduledAt, err := utils.AtClock(date, rec.StartTime)
		if err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		recID := rec.ID
		appointments = append(appointments, domain.Appointment{
			ID:                    uuid.New(),
			ClinicID:              cmd.ClinicID,
			ProfessionalProfileID: rec.ProfessionalProfileID,
			PatientID:             cmd.PatientID,
			PatientName:           cmd.PatientName,
			ScheduledAt:           scheduledAt,
			EndAt:                 scheduledAt.Add(time.Duration(rec.Duration) * time.Minute),
			Status:                domain.AppointmentStatusAgendado,
			Type:                  cmd.Type,
			BlocksTime:            cmd.Type.DefaultBlocksTime(),
			Modality:              cmd.Modality,
			RecurrenceID:          &recID,
			Price:                 cmd.Price,
		})
		occurrenceDates = append(occurrenceDates, utils.ToDateString(date))
	}

	// Tudo-ou-nada: a primeira ocorrência em conflito aborta a série
	// inteira antes de qualquer escrita
	if conflictAt, err := s.findFirstConflict(ctx, rec.ProfessionalProfileID, appointments, uuid.Nil); err != nil {
		return nil, err
	} else if conflictAt >= 0 {
		s.logger.Warn("recurrence.create.conflict", out.LogFields{
			"recurrenceId": rec.ID,
			"conflictAt":   conflictAt,
			"date":         occurrenceDates[conflictAt],
		})
		return &in.ExpandResult{ConflictAt: conflictAt}, nil
	}

	if err := s.storagePort.CreateSeries(ctx, &rec, appointments); err != nil {
		return nil, fmt.Errorf("recurrence.create.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, appointments)

	s.logger.Info("recurrence.create.done", out.LogFields{
		"recurrenceId": rec.ID,
		"type":         rec.RecurrenceType,
		"occurrences":  len(appointments),
	})

	return &in.ExpandResult{OccurrenceDates: occurrenceDates, ConflictAt: -1}, nil
}

// ExtendHorizon materializa as ocorrências que faltam de uma série
// INDEFINITE dentro do horizonte rolante. O agendamento periódico dessa
// chamada fica fora do motor.
func (s *RecurrenceService) ExtendHorizon(ctx context.Context, recurrenceID uuid.UUID) (*in.ExpandResult, error) {
	rec, err := s.storagePort.GetRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	if !rec.IsActive || rec.RecurrenceEndType != domain.RecurrenceEndIndefinite {
		return &in.ExpandResult{OccurrenceDates: []string{}, ConflictAt: -1}, nil
	}

	existing, err := s.storagePort.GetRecurrenceAppointments(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return &in.ExpandResult{OccurrenceDates: []string{}, ConflictAt: -1}, nil
	}

	existingDates := make(map[string]struct{}, len(existing))
	first := utils.StartOfDay(existing[0].ScheduledAt)
	for _, a := range existing {
		existingDates[utils.ToDateString(a.ScheduledAt)] = struct{}{}
		if day := utils.StartOfDay(a.ScheduledAt); day.Before(first) {
			first = day
		}
	}

	dates, err := ExpandOccurrences(rec, first, s.now(), s.cfg.Agenda.RecurrenceHorizonMonths)
	if err != nil {
		return nil, err
	}

	appointments := make([]domain.Appointment, 0)
	occurrenceDates := make([]string, 0)
	template := existing[0]
	for _, date := range dates {
		iso := utils.ToDateString(date)
		if _, ok := existingDates[iso]; ok {
			continue
		}
		scheduledAt, err := utils.AtClock(date, rec.StartTime)
		if err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		recID := rec.ID
		appointments = append(appointments, domain.Appointment{
			ID:                    uuid.New(),
			ClinicID:              template.ClinicID,
			ProfessionalProfileID: rec.ProfessionalProfileID,
			PatientID:             template.PatientID,
			PatientName:           template.PatientName,
			ScheduledAt:           scheduledAt,
			EndAt:                 scheduledAt.Add(time.Duration(rec.Duration) * time.Minute),
			Status:                domain.AppointmentStatusAgendado,
			Type:                  template.Type,
			BlocksTime:            template.BlocksTime,
			Modality:              template.Modality,
			RecurrenceID:          &recID,
			Price:                 template.Price,
		})
		occurrenceDates = append(occurrenceDates, iso)
	}

	if len(appointments) == 0 {
		return &in.ExpandResult{OccurrenceDates: []string{}, ConflictAt: -1}, nil
	}

	if conflictAt, err := s.findFirstConflict(ctx, rec.ProfessionalProfileID, appointments, rec.ID); err != nil {
		return nil, err
	} else if conflictAt >= 0 {
		return &in.ExpandResult{ConflictAt: conflictAt}, nil
	}

	if err := s.storagePort.CreateAppointments(ctx, appointments); err != nil {
		return nil, fmt.Errorf("recurrence.extend.persist_failed: %w", err)
	}

	s.invalidateDays(ctx, appointments)

	s.logger.Info("recurrence.extend.done", out.LogFields{
		"recurrenceId": rec.ID,
		"created":      len(appointments),
	})

	return &in.ExpandResult{OccurrenceDates: occurrenceDates, ConflictAt: -1}, nil
}

// findFirstConflict busca os bloqueantes do intervalo de uma vez e
// devolve o índice da primeira ocorrência candidata que colide.
// excludeRecurrenceID ignora a própria série.
func (s *RecurrenceService) findFirstConflict(ctx context.Context, professionalID uuid.UUID, candidates []domain.Appointment, excludeRecurrenceID uuid.UUID) (int, error) {
	if len(candidates) == 0 {
		return -1, nil
	}

	from, to := candidates[0].ScheduledAt, candidates[0].EndAt
	for _, c := range candidates {
		if c.ScheduledAt.Before(from) {
			from = c.ScheduledAt
		}
		if c.EndAt.After(to) {
			to = c.EndAt
		}
	}

	existing, err := s.storagePort.GetBlockingAppointments(ctx, professionalID, from, to)
	if err != nil {
		return -1, fmt.Errorf("recurrence.conflict_check.fetch_failed: %w", err)
	}

	for idx, c := range candidates {
		for _, a := range existing {
			if excludeRecurrenceID != uuid.Nil && a.RecurrenceID != nil && *a.RecurrenceID == excludeRecurrenceID {
				continue
			}
			if a.ScheduledAt.Before(c.EndAt) && a.EndAt.After(c.ScheduledAt) {
				return idx, nil
			}
		}
	}

	return -1, nil
}

func (s *RecurrenceService) invalidateDays(ctx context.Context, appointments []domain.Appointment) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}
	for _, a := range appointments {
		s.cachePort.InvalidateDay(ctx, a.ProfessionalProfileID, utils.ToDateString(a.ScheduledAt))
	}
}
