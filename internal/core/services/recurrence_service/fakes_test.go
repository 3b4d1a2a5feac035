package recurrence_service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

// fakeStorage registra as escritas para as asserções de tudo-ou-nada
type fakeStorage struct {
	recurrences  map[uuid.UUID]domain.AppointmentRecurrence
	appointments map[uuid.UUID]domain.Appointment
	blocking     []domain.Appointment

	createdSeries       *domain.AppointmentRecurrence
	createdAppointments []domain.Appointment
	patchedRecurrence   *domain.AppointmentRecurrence
	patchedUpdated      []domain.Appointment
	patchedRemovedIDs   []uuid.UUID
	updated             []domain.Appointment
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		recurrences:  make(map[uuid.UUID]domain.AppointmentRecurrence),
		appointments: make(map[uuid.UUID]domain.Appointment),
	}
}

func (f *fakeStorage) GetDaySnapshot(ctx context.Context, clinicID, professionalID uuid.UUID, day time.Time) (*out.DaySnapshot, error) {
	return &out.DaySnapshot{}, nil
}

func (f *fakeStorage) GetClinicAppointments(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	return nil, nil
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
	return f.blocking, nil
}

func (f *fakeStorage) CreateSeries(ctx context.Context, recurrence *domain.AppointmentRecurrence, appointments []domain.Appointment) error {
	f.createdSeries = recurrence
	f.createdAppointments = appointments
	return nil
}

func (f *fakeStorage) CreateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	f.createdAppointments = append(f.createdAppointments, appointments...)
	return nil
}

func (f *fakeStorage) ApplySeriesPatch(ctx context.Context, recurrence *domain.AppointmentRecurrence, updated []domain.Appointment, removedIDs []uuid.UUID) error {
	f.patchedRecurrence = recurrence
	f.patchedUpdated = updated
	f.patchedRemovedIDs = removedIDs
	f.recurrences[recurrence.ID] = *recurrence
	for _, a := range updated {
		f.appointments[a.ID] = a
	}
	return nil
}

func (f *fakeStorage) UpdateAppointment(ctx context.Context, appointment *domain.Appointment) error {
	f.updated = append(f.updated, *appointment)
	f.appointments[appointment.ID] = *appointment
	return nil
}

func (f *fakeStorage) UpdateAppointments(ctx context.Context, appointments []domain.Appointment) error {
	f.updated = append(f.updated, appointments...)
	for _, a := range appointments {
		f.appointments[a.ID] = a
	}
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Agenda.DefaultDurationMinutes = 60
	cfg.Agenda.RecurrenceHorizonMonths = 6
	return cfg
}

func newTestService(storage *fakeStorage, now time.Time) *RecurrenceService {
	return NewRecurrenceService(storage, nil, testConfig(), nopLogger{}).
		WithClock(func() time.Time { return now })
}
