package recurrence_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/json_types"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

func strPtr(s string) *string { return &s }

// Série semanal de segunda 09:00, ancorada em 07/09/2026, com uma
// ocorrência passada e duas futuras em relação a "agora" = 10/09
func seedWeeklySeries(t *testing.T, storage *fakeStorage) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	recID := uuid.New()
	profID := uuid.New()
	storage.recurrences[recID] = domain.AppointmentRecurrence{
		ID:                    recID,
		ProfessionalProfileID: profID,
		RecurrenceType:        domain.RecurrenceTypeWeekly,
		RecurrenceEndType:     domain.RecurrenceEndByOccurrences,
		DayOfWeek:             1,
		StartTime:             "09:00",
		EndTime:               "09:50",
		Duration:              50,
		Occurrences:           intPtr(3),
		IsActive:              true,
		Exceptions:            json_types.NewDateSet(),
	}

	ids := make([]uuid.UUID, 0, 3)
	for _, iso := range []string{"2026-09-07", "2026-09-14", "2026-09-21"} {
		scheduledAt, err := utils.AtClock(mustDate(t, iso), "09:00")
		require.NoError(t, err)
		a := domain.Appointment{
			ID:                    uuid.New(),
			ProfessionalProfileID: profID,
			PatientName:           "Maria",
			ScheduledAt:           scheduledAt,
			EndAt:                 scheduledAt.Add(50 * time.Minute),
			Status:                domain.AppointmentStatusAgendado,
			Type:                  domain.AppointmentTypeConsulta,
			BlocksTime:            true,
			RecurrenceID:          &recID,
		}
		storage.appointments[a.ID] = a
		ids = append(ids, a.ID)
	}
	return recID, ids
}

func TestApplyEdit_OccurrenceScope(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, ids := seedWeeklySeries(t, storage)

	result, err := service.ApplyEdit(context.Background(), recID, domain.RecurrencePatch{
		OccurrenceID: &ids[1],
		StartTime:    strPtr("14:00"),
		Notes:        strPtr("remarcado a pedido"),
	}, domain.EditScopeOccurrence)
	require.NoError(t, err)

	require.Len(t, result.Updated, 1)
	moved := result.Updated[0]
	assert.Equal(t, "14:00", moved.ScheduledAt.Format("15:04"))
	assert.Equal(t, "14:50", moved.EndAt.Format("15:04"), "duração original preservada")
	assert.Equal(t, "remarcado a pedido", moved.Notes)

	// template da série fica intocado
	rec := storage.recurrences[recID]
	assert.Equal(t, "09:00", rec.StartTime)
	assert.Empty(t, rec.Exceptions.Sorted())

	// as outras ocorrências não mudam
	assert.Equal(t, "09:00", storage.appointments[ids[0]].ScheduledAt.Format("15:04"))
	assert.Equal(t, "09:00", storage.appointments[ids[2]].ScheduledAt.Format("15:04"))
}

func TestApplyEdit_OccurrenceScopeRequiresID(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, _ := seedWeeklySeries(t, storage)

	_, err := service.ApplyEdit(context.Background(), recID,
		domain.RecurrencePatch{StartTime: strPtr("14:00")}, domain.EditScopeOccurrence)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "occurrenceId", validationErr.Field)
}

func TestApplyEdit_FutureScopeShiftsTimeForFutureOnly(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, ids := seedWeeklySeries(t, storage)

	result, err := service.ApplyEdit(context.Background(), recID, domain.RecurrencePatch{
		StartTime: strPtr("15:00"),
		EndTime:   strPtr("16:00"),
	}, domain.EditScopeFuture)
	require.NoError(t, err)

	require.Len(t, result.Updated, 2, "só 14/09 e 21/09 são futuras em 10/09")
	for _, a := range result.Updated {
		assert.Equal(t, "15:00", a.ScheduledAt.Format("15:04"))
		assert.Equal(t, "16:00", a.EndAt.Format("15:04"))
	}

	// a passada fica como estava
	assert.Equal(t, "09:00", storage.appointments[ids[0]].ScheduledAt.Format("15:04"))

	rec := storage.recurrences[recID]
	assert.Equal(t, "15:00", rec.StartTime)
	assert.Equal(t, 60, rec.Duration)
}

func TestApplyEdit_FutureScopeDayShiftKeepsWeekParity(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, _ := seedWeeklySeries(t, storage)

	// segunda (1) -> quarta (3): cada futura desloca +2 dias na mesma semana
	newDay := 3
	result, err := service.ApplyEdit(context.Background(), recID, domain.RecurrencePatch{
		DayOfWeek: &newDay,
	}, domain.EditScopeFuture)
	require.NoError(t, err)

	require.Len(t, result.Updated, 2)
	dates := []string{
		utils.ToDateString(result.Updated[0].ScheduledAt),
		utils.ToDateString(result.Updated[1].ScheduledAt),
	}
	assert.ElementsMatch(t, []string{"2026-09-16", "2026-09-23"}, dates)
	for _, a := range result.Updated {
		assert.Equal(t, time.Wednesday, a.ScheduledAt.Weekday())
	}

	assert.Equal(t, 3, storage.recurrences[recID].DayOfWeek)
}

func TestApplyEdit_FutureScopeConflictMutatesNothing(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, ids := seedWeeklySeries(t, storage)

	// bloqueante de outro paciente na quarta 16/09 às 09:30
	conflictStart, err := utils.AtClock(mustDate(t, "2026-09-16"), "09:30")
	require.NoError(t, err)
	storage.blocking = []domain.Appointment{{
		ID:          uuid.New(),
		ScheduledAt: conflictStart,
		EndAt:       conflictStart.Add(time.Hour),
		Status:      domain.AppointmentStatusAgendado,
		BlocksTime:  true,
	}}

	newDay := 3
	result, err := service.ApplyEdit(context.Background(), recID, domain.RecurrencePatch{
		DayOfWeek: &newDay,
	}, domain.EditScopeFuture)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "2026-09-16", result.Conflicts[0].Date)
	assert.NotEmpty(t, result.Conflicts[0].ConflictsWith)
	assert.Empty(t, result.Updated)

	// zero mutação: nem template nem ocorrências
	assert.Nil(t, storage.patchedRecurrence)
	assert.Equal(t, 1, storage.recurrences[recID].DayOfWeek)
	for _, id := range ids {
		assert.Equal(t, time.Monday, storage.appointments[id].ScheduledAt.Weekday())
	}
}

func TestApplyEdit_FrequencyChangeRemovesNonFitting(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, ids := seedWeeklySeries(t, storage)

	// semanal -> quinzenal ancorado na primeira futura (14/09): 21/09 não cabe
	newType := domain.RecurrenceTypeBiweekly
	result, err := service.ApplyEdit(context.Background(), recID, domain.RecurrencePatch{
		RecurrenceType: &newType,
	}, domain.EditScopeFuture)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{ids[2]}, storage.patchedRemovedIDs)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, "2026-09-14", utils.ToDateString(result.Updated[0].ScheduledAt))
	assert.Equal(t, domain.RecurrenceTypeBiweekly, storage.recurrences[recID].RecurrenceType)
}

func TestPreviewRemoved(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage, mustDate(t, "2026-09-10"))
	recID, _ := seedWeeklySeries(t, storage)

	dates, err := service.PreviewRemoved(context.Background(), recID, domain.RecurrenceTypeBiweekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-21"}, dates)

	// prévia nunca muda nada
	assert.Nil(t, storage.patchedRecurrence)
	assert.Equal(t, domain.RecurrenceTypeWeekly, storage.recurrences[recID].RecurrenceType)

	// mesmo tipo: nada a remover
	dates, err = service.PreviewRemoved(context.Background(), recID, domain.RecurrenceTypeWeekly)
	require.NoError(t, err)
	assert.Empty(t, dates)
}
