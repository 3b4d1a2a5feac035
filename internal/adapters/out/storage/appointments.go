package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

const appointmentCols = `id, clinic_id, professional_profile_id, patient_id, patient_name,
	scheduled_at, end_at, status, type, blocks_time, modality,
	group_id, recurrence_id, additional_professionals, cancel_reason, notes, price`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.ClinicID, &a.ProfessionalProfileID, &a.PatientID, &a.PatientName,
		&a.ScheduledAt, &a.EndAt, &a.Status, &a.Type, &a.BlocksTime, &a.Modality,
		&a.GroupID, &a.RecurrenceID, &a.AdditionalProfessionals, &a.CancelReason, &a.Notes, &a.Price,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	defer rows.Close()
	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

func (s *PostgresAdapter) GetAppointment(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (s *PostgresAdapter) GetClinicAppointments(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	from, to := dayBounds(day)
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE clinic_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		 ORDER BY scheduled_at`, clinicID, from, to)
	if err != nil {
		return nil, fmt.Errorf("storage.appointments.clinic_day_failed: %w", err)
	}
	return collectAppointments(rows)
}

func (s *PostgresAdapter) GetRecurrenceAppointments(ctx context.Context, recurrenceID uuid.UUID) ([]domain.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE recurrence_id = $1 ORDER BY scheduled_at`, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("storage.appointments.recurrence_failed: %w", err)
	}
	return collectAppointments(rows)
}

func (s *PostgresAdapter) GetBlockingAppointments(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE professional_profile_id = $1
		   AND scheduled_at < $3 AND end_at > $2
		   AND blocks_time = true
		   AND status NOT IN ('CANCELADO_ACORDADO', 'CANCELADO_FALTA', 'CANCELADO_PROFISSIONAL')
		 ORDER BY scheduled_at`, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("storage.appointments.blocking_failed: %w", err)
	}
	return collectAppointments(rows)
}

func (s *PostgresAdapter) CreateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return insertAppointments(ctx, tx, appointments)
	})
}

func (s *PostgresAdapter) UpdateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return updateAppointment(ctx, tx, *appointment)
	})
}

func (s *PostgresAdapter) UpdateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		for _, a := range appointments {
			if err := updateAppointment(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertAppointments(ctx context.Context, tx pgx.Tx, appointments []domain.Appointment) error {
	for _, a := range appointments {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (`+appointmentCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			a.ID, a.ClinicID, a.ProfessionalProfileID, a.PatientID, a.PatientName,
			a.ScheduledAt, a.EndAt, a.Status, a.Type, a.BlocksTime, a.Modality,
			a.GroupID, a.RecurrenceID, a.AdditionalProfessionals, a.CancelReason, a.Notes, a.Price,
		)
		if err != nil {
			return fmt.Errorf("storage.appointments.insert_failed: %w", err)
		}
	}
	return nil
}

func updateAppointment(ctx context.Context, tx pgx.Tx, a domain.Appointment) error {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments SET
			scheduled_at = $2, end_at = $3, status = $4, blocks_time = $5,
			modality = $6, cancel_reason = $7, notes = $8, price = $9
		WHERE id = $1`,
		a.ID, a.ScheduledAt, a.EndAt, a.Status, a.BlocksTime,
		a.Modality, a.CancelReason, a.Notes, a.Price,
	)
	if err != nil {
		return fmt.Errorf("storage.appointments.update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// dayBounds delimita [início do dia, início do dia seguinte)
func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}
