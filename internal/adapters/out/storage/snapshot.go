package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

// GetDaySnapshot lê de uma vez tudo que o cálculo de slots de um dia
// precisa: regras do dia da semana, exceções aplicáveis, agendamentos,
// sessões em grupo e sugestões quinzenais da semana alternada.
func (s *PostgresAdapter) GetDaySnapshot(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*out.DaySnapshot, error) {
	rules, err := s.getRules(ctx, professionalID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	exceptions, err := s.getExceptions(ctx, professionalID, day)
	if err != nil {
		return nil, err
	}

	appointments, err := s.getProfessionalAppointments(ctx, professionalID, day)
	if err != nil {
		return nil, err
	}

	sessions, err := s.getGroupSessions(ctx, clinicID, day)
	if err != nil {
		return nil, err
	}

	hints, err := s.getBiweeklyHints(ctx, professionalID, day)
	if err != nil {
		return nil, err
	}

	return &out.DaySnapshot{
		Rules:         rules,
		Exceptions:    exceptions,
		Appointments:  appointments,
		GroupSessions: sessions,
		BiweeklyHints: hints,
	}, nil
}

func (s *PostgresAdapter) getRules(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) ([]domain.AvailabilityRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, professional_profile_id, day_of_week, start_time, end_time, is_active
		FROM availability_rules
		WHERE professional_profile_id = $1 AND day_of_week = $2 AND is_active = true
		ORDER BY created_at`, professionalID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("storage.rules.fetch_failed: %w", err)
	}
	defer rows.Close()

	rules := make([]domain.AvailabilityRule, 0)
	for rows.Next() {
		var r domain.AvailabilityRule
		if err := rows.Scan(&r.ID, &r.ProfessionalProfileID, &r.DayOfWeek, &r.StartTime, &r.EndTime, &r.IsActive); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// Exceções do profissional e da clínica inteira, na ordem de criação:
// a resolução de sobreposição é primeira-que-casa-na-ordem
func (s *PostgresAdapter) getExceptions(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]domain.AvailabilityException, error) {
	from, _ := dayBounds(day)
	rows, err := s.pool.Query(ctx, `
		SELECT id, professional_profile_id, date, day_of_week, is_recurring,
		       is_available, start_time, end_time, reason, is_clinic_wide
		FROM availability_exceptions
		WHERE (professional_profile_id = $1 OR is_clinic_wide = true)
		  AND ((is_recurring = false AND date = $2) OR (is_recurring = true AND day_of_week = $3))
		ORDER BY created_at`, professionalID, from, int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("storage.exceptions.fetch_failed: %w", err)
	}
	defer rows.Close()

	exceptions := make([]domain.AvailabilityException, 0)
	for rows.Next() {
		var e domain.AvailabilityException
		if err := rows.Scan(&e.ID, &e.ProfessionalProfileID, &e.Date, &e.DayOfWeek, &e.IsRecurring,
			&e.IsAvailable, &e.StartTime, &e.EndTime, &e.Reason, &e.IsClinicWide); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

func (s *PostgresAdapter) getProfessionalAppointments(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	from, to := dayBounds(day)
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE (professional_profile_id = $1 OR $1 = ANY(additional_professionals))
		   AND scheduled_at >= $2 AND scheduled_at < $3
		 ORDER BY scheduled_at`, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("storage.appointments.day_failed: %w", err)
	}
	return collectAppointments(rows)
}

// GetClinicGroupSessions expõe as sessões em grupo de um dia da clínica
func (s *PostgresAdapter) GetClinicGroupSessions(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.GroupSession, error) {
	return s.getGroupSessions(ctx, clinicID, day)
}

// Sessão em grupo é um agregado de leitura: agendamentos que
// compartilham group_id e scheduled_at
func (s *PostgresAdapter) getGroupSessions(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.GroupSession, error) {
	from, to := dayBounds(day)
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE clinic_id = $1 AND group_id IS NOT NULL
		   AND scheduled_at >= $2 AND scheduled_at < $3
		 ORDER BY scheduled_at`, clinicID, from, to)
	if err != nil {
		return nil, fmt.Errorf("storage.group_sessions.fetch_failed: %w", err)
	}
	members, err := collectAppointments(rows)
	if err != nil {
		return nil, err
	}

	type sessionKey struct {
		groupID     uuid.UUID
		scheduledAt time.Time
	}
	grouped := make(map[sessionKey]*domain.GroupSession)
	order := make([]sessionKey, 0)
	for _, a := range members {
		key := sessionKey{groupID: *a.GroupID, scheduledAt: a.ScheduledAt}
		session, ok := grouped[key]
		if !ok {
			session = &domain.GroupSession{
				GroupID:                 *a.GroupID,
				ScheduledAt:             a.ScheduledAt,
				EndAt:                   a.EndAt,
				ProfessionalProfileID:   a.ProfessionalProfileID,
				AdditionalProfessionals: a.AdditionalProfessionals,
			}
			grouped[key] = session
			order = append(order, key)
		}
		if a.EndAt.After(session.EndAt) {
			session.EndAt = a.EndAt
		}
		session.Participants = append(session.Participants, domain.GroupSessionParticipant{
			AppointmentID: a.ID,
			PatientName:   a.PatientName,
			Status:        a.Status,
		})
	}

	sessions := make([]domain.GroupSession, 0, len(order))
	for _, key := range order {
		sessions = append(sessions, *grouped[key])
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ScheduledAt.Before(sessions[j].ScheduledAt)
	})
	return sessions, nil
}

// Sugestões quinzenais: pacientes de séries BIWEEKLY ativas cuja
// ocorrência cai na semana alternada (dia ± 7)
func (s *PostgresAdapter) getBiweeklyHints(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]domain.BiweeklyHint, error) {
	prevFrom, prevTo := dayBounds(day.AddDate(0, 0, -7))
	nextFrom, nextTo := dayBounds(day.AddDate(0, 0, 7))

	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.patient_name, a.scheduled_at, a.professional_profile_id
		FROM appointments a
		JOIN appointment_recurrences r ON r.id = a.recurrence_id
		WHERE a.professional_profile_id = $1
		  AND r.recurrence_type = 'BIWEEKLY' AND r.is_active = true
		  AND a.status NOT IN ('CANCELADO_ACORDADO', 'CANCELADO_FALTA', 'CANCELADO_PROFISSIONAL')
		  AND ((a.scheduled_at >= $2 AND a.scheduled_at < $3)
		    OR (a.scheduled_at >= $4 AND a.scheduled_at < $5))
		ORDER BY a.scheduled_at`, professionalID, prevFrom, prevTo, nextFrom, nextTo)
	if err != nil {
		return nil, fmt.Errorf("storage.biweekly_hints.fetch_failed: %w", err)
	}
	defer rows.Close()

	hints := make([]domain.BiweeklyHint, 0)
	seen := make(map[string]struct{})
	for rows.Next() {
		var (
			id          uuid.UUID
			patientName string
			scheduledAt time.Time
			profID      uuid.UUID
		)
		if err := rows.Scan(&id, &patientName, &scheduledAt, &profID); err != nil {
			return nil, err
		}
		clock := scheduledAt.Format("15:04")
		if _, dup := seen[clock]; dup {
			continue
		}
		seen[clock] = struct{}{}
		hints = append(hints, domain.BiweeklyHint{
			Time:                  clock,
			ProfessionalProfileID: profID,
			PatientName:           patientName,
			AppointmentID:         id,
		})
	}
	return hints, rows.Err()
}
