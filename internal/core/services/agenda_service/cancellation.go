package agenda_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/in"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Templates de notificação por status de cancelamento
var cancellationTemplates = map[domain.AppointmentStatus]string{
	domain.AppointmentStatusCanceladoAcordado:     "appointment_cancelled_agreed",
	domain.AppointmentStatusCanceladoFalta:        "appointment_no_show",
	domain.AppointmentStatusCanceladoProfissional: "appointment_cancelled_by_professional",
}

// BuildNotificationDecisions resolve os canais de notificação de um
// cancelamento. Sem consentimento o canal é descartado, mesmo que a
// notificação tenha sido pedida.
func BuildNotificationDecisions(cmd in.CancelCommand) []domain.NotificationDecision {
	decisions := make([]domain.NotificationDecision, 0, 2)
	if !cmd.NotifyPatient {
		return decisions
	}

	template := cancellationTemplates[cmd.TargetStatus]

	if cmd.Consent.WhatsApp && cmd.RecipientWhatsApp != "" {
		decisions = append(decisions, domain.NotificationDecision{
			Channel:       domain.NotificationChannelWhatsApp,
			Template:      template,
			Recipient:     cmd.RecipientWhatsApp,
			AppointmentID: cmd.AppointmentID,
		})
	}
	if cmd.Consent.Email && cmd.RecipientEmail != "" {
		decisions = append(decisions, domain.NotificationDecision{
			Channel:       domain.NotificationChannelEmail,
			Template:      template,
			Recipient:     cmd.RecipientEmail,
			AppointmentID: cmd.AppointmentID,
		})
	}

	return decisions
}

func (s *AgendaService) CancelAppointment(ctx context.Context, cmd in.CancelCommand) (*in.CancelResult, error) {
	if !cmd.TargetStatus.IsCancelled() {
		return nil, domain.NewValidationError("targetStatus", "não é um status de cancelamento")
	}

	appointment, err := s.storagePort.GetAppointment(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(cmd.TargetStatus) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("transição %s -> %s não permitida", appointment.Status, cmd.TargetStatus))
	}

	updated := []domain.Appointment{*appointment}

	// Cancelamento de série: cascateia o mesmo status+motivo para as
	// ocorrências futuras ainda não realizadas
	if cmd.CancelType == domain.CancelTypeSeries && appointment.RecurrenceID != nil {
		seriesAppointments, err := s.storagePort.GetRecurrenceAppointments(ctx, *appointment.RecurrenceID)
		if err != nil {
			return nil, err
		}
		for _, a := range seriesAppointments {
			if a.ID == appointment.ID {
				continue
			}
			if a.ScheduledAt.Before(appointment.ScheduledAt) {
				continue
			}
			if !a.Status.CanTransitionTo(cmd.TargetStatus) {
				continue
			}
			updated = append(updated, a)
		}
	}

	for i := range updated {
		updated[i].Status = cmd.TargetStatus
		updated[i].CancelReason = cmd.Reason
	}

	if err := s.storagePort.UpdateAppointments(ctx, updated); err != nil {
		s.logger.Error("agenda.cancel.update_failed", out.LogFields{
			"appointmentId": cmd.AppointmentID,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("agenda.cancel.update_failed: %w", err)
	}

	result := &in.CancelResult{
		UpdatedIDs:    make([]uuid.UUID, 0, len(updated)),
		Notifications: BuildNotificationDecisions(cmd),
	}
	for _, a := range updated {
		result.UpdatedIDs = append(result.UpdatedIDs, a.ID)
		s.InvalidateDaySlots(ctx, a.ProfessionalProfileID, utils.ToDateString(a.ScheduledAt))
	}

	s.logger.Info("agenda.cancel.applied", out.LogFields{
		"appointmentId": cmd.AppointmentID,
		"cancelType":    cmd.CancelType,
		"status":        cmd.TargetStatus,
		"billing":       cmd.TargetStatus.Billing(),
		"updatedCount":  len(updated),
	})

	if s.notifierPort != nil {
		for _, decision := range result.Notifications {
			if err := s.notifierPort.PublishDecision(ctx, decision); err != nil {
				s.logger.Error("agenda.cancel.notify_failed", out.LogFields{
					"appointmentId": cmd.AppointmentID,
					"channel":       decision.Channel,
					"error":         err.Error(),
				})
			}
		}
	}

	return result, nil
}
