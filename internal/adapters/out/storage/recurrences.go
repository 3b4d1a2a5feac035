package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/json_types"
)

const recurrenceCols = `id, professional_profile_id, recurrence_type, recurrence_end_type,
	day_of_week, start_time, end_time, duration, occurrences, end_date, is_active, exceptions`

func (s *PostgresAdapter) GetRecurrence(ctx context.Context, id uuid.UUID) (*domain.AppointmentRecurrence, error) {
	var (
		rec        domain.AppointmentRecurrence
		exceptions []string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+recurrenceCols+` FROM appointment_recurrences WHERE id = $1`, id).Scan(
		&rec.ID, &rec.ProfessionalProfileID, &rec.RecurrenceType, &rec.RecurrenceEndType,
		&rec.DayOfWeek, &rec.StartTime, &rec.EndTime, &rec.Duration,
		&rec.Occurrences, &rec.EndDate, &rec.IsActive, &exceptions,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage.recurrences.fetch_failed: %w", err)
	}
	rec.Exceptions = json_types.NewDateSet(exceptions...)
	return &rec, nil
}

// CreateSeries grava o template e todas as ocorrências numa transação
func (s *PostgresAdapter) CreateSeries(ctx context.Context, recurrence *domain.AppointmentRecurrence, appointments []domain.Appointment) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointment_recurrences (`+recurrenceCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			recurrence.ID, recurrence.ProfessionalProfileID, recurrence.RecurrenceType,
			recurrence.RecurrenceEndType, recurrence.DayOfWeek, recurrence.StartTime,
			recurrence.EndTime, recurrence.Duration, recurrence.Occurrences,
			recurrence.EndDate, recurrence.IsActive, recurrence.Exceptions.Sorted(),
		)
		if err != nil {
			return fmt.Errorf("storage.recurrences.insert_failed: %w", err)
		}
		return insertAppointments(ctx, tx, appointments)
	})
}

// ApplySeriesPatch atualiza o template, as ocorrências alteradas e
// remove as que não cabem mais, tudo na mesma transação
func (s *PostgresAdapter) ApplySeriesPatch(ctx context.Context, recurrence *domain.AppointmentRecurrence, updated []domain.Appointment, removedIDs []uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE appointment_recurrences SET
				recurrence_type = $2, recurrence_end_type = $3, day_of_week = $4,
				start_time = $5, end_time = $6, duration = $7,
				occurrences = $8, end_date = $9, is_active = $10, exceptions = $11
			WHERE id = $1`,
			recurrence.ID, recurrence.RecurrenceType, recurrence.RecurrenceEndType,
			recurrence.DayOfWeek, recurrence.StartTime, recurrence.EndTime,
			recurrence.Duration, recurrence.Occurrences, recurrence.EndDate,
			recurrence.IsActive, recurrence.Exceptions.Sorted(),
		)
		if err != nil {
			return fmt.Errorf("storage.recurrences.update_failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		for _, a := range updated {
			if err := updateAppointment(ctx, tx, a); err != nil {
				return err
			}
		}

		if len(removedIDs) > 0 {
			_, err := tx.Exec(ctx,
				`DELETE FROM appointments WHERE id = ANY($1)`, removedIDs)
			if err != nil {
				return fmt.Errorf("storage.appointments.delete_failed: %w", err)
			}
		}
		return nil
	})
}
