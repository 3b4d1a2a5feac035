package agenda_service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)           {}
func (nopLogger) Info(string, out.LogFields)            {}
func (nopLogger) Warn(string, out.LogFields)            {}
func (nopLogger) Error(string, out.LogFields)           {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type fakeStorage struct {
	snapshot     *out.DaySnapshot
	appointments map[uuid.UUID]domain.Appointment
	recurrences  map[uuid.UUID]domain.AppointmentRecurrence
	updated      []domain.Appointment
	updateErr    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		appointments: make(map[uuid.UUID]domain.Appointment),
		recurrences:  make(map[uuid.UUID]domain.AppointmentRecurrence),
	}
}

func (f *fakeStorage) GetDaySnapshot(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*out.DaySnapshot, error) {
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &out.DaySnapshot{}, nil
}

func (f *fakeStorage) GetClinicAppointments(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0, len(f.appointments))
	for _, a := range f.appointments {
		appointments = append(appointments, a)
	}
	return appointments, nil
}

func (f *fakeStorage) GetClinicGroupSessions(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.GroupSession, error) {
	return nil, nil
}

func (f *fakeStorage) GetAppointment(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeStorage) GetRecurrence(ctx context.Context, id uuid.UUID) (*domain.AppointmentRecurrence, error) {
	r, ok := f.recurrences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStorage) GetRecurrenceAppointments(ctx context.Context, recurrenceID uuid.UUID) ([]domain.Appointment, error) {
	matched := make([]domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.RecurrenceID != nil && *a.RecurrenceID == recurrenceID {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (f *fakeStorage) GetBlockingAppointments(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Appointment, error) {
	return nil, nil
}

func (f *fakeStorage) CreateSeries(ctx context.Context, recurrence *domain.AppointmentRecurrence, appointments []domain.Appointment) error {
	return nil
}

func (f *fakeStorage) CreateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	return nil
}

func (f *fakeStorage) ApplySeriesPatch(ctx context.Context, recurrence *domain.AppointmentRecurrence, updated []domain.Appointment, removedIDs []uuid.UUID) error {
	return nil
}

func (f *fakeStorage) UpdateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	f.updated = append(f.updated, *appointment)
	return nil
}

func (f *fakeStorage) UpdateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, appointments...)
	for _, a := range appointments {
		f.appointments[a.ID] = a
	}
	return nil
}

type fakeNotifier struct {
	published []domain.NotificationDecision
}

func (f *fakeNotifier) PublishDecision(ctx context.Context, decision domain.NotificationDecision) error {
	f.published = append(f.published, decision)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Agenda.DefaultDurationMinutes = 60
	cfg.Agenda.RecurrenceHorizonMonths = 6
	return cfg
}
