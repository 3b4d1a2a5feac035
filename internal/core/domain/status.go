package domain

type AppointmentStatus string

const (
	AppointmentStatusAgendado              AppointmentStatus = "AGENDADO"
	AppointmentStatusConfirmado            AppointmentStatus = "CONFIRMADO"
	AppointmentStatusFinalizado            AppointmentStatus = "FINALIZADO"
	AppointmentStatusCanceladoAcordado     AppointmentStatus = "CANCELADO_ACORDADO"
	AppointmentStatusCanceladoFalta        AppointmentStatus = "CANCELADO_FALTA"
	AppointmentStatusCanceladoProfissional AppointmentStatus = "CANCELADO_PROFISSIONAL"
)

type AppointmentType string

const (
	AppointmentTypeConsulta AppointmentType = "CONSULTA"
	AppointmentTypeTarefa   AppointmentType = "TAREFA"
	AppointmentTypeLembrete AppointmentType = "LEMBRETE"
	AppointmentTypeNota     AppointmentType = "NOTA"
	AppointmentTypeReuniao  AppointmentType = "REUNIAO"
)

type Modality string

const (
	ModalityOnline     Modality = "ONLINE"
	ModalityPresencial Modality = "PRESENCIAL"
)

// Desfecho de cobrança de cada status de cancelamento
type BillingOutcome string

const (
	BillingOutcomeCredit    BillingOutcome = "CREDIT"
	BillingOutcomeBilled    BillingOutcome = "BILLED"
	BillingOutcomeNotBilled BillingOutcome = "NOT_BILLED"
	BillingOutcomeNone      BillingOutcome = "NONE"
)

type CancelType string

const (
	CancelTypeSingle CancelType = "single"
	CancelTypeSeries CancelType = "series"
)

// Motivo sentinela usado quando uma ocorrência é pulada pela recorrência.
// O unskip só reverte o status se o par status+motivo bater exatamente.
const RecurrenceSkipReason = "Ocorrência pulada da recorrência"

func (s AppointmentStatus) IsCancelled() bool {
	switch s {
	case AppointmentStatusCanceladoAcordado,
		AppointmentStatusCanceladoFalta,
		AppointmentStatusCanceladoProfissional:
		return true
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusFinalizado
}

// Transições permitidas:
// AGENDADO   -> CONFIRMADO | FINALIZADO | CANCELADO_*
// CONFIRMADO -> FINALIZADO | CANCELADO_*
// CANCELADO_* -> AGENDADO (somente unskip ou override administrativo)
// FINALIZADO é terminal
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	switch s {
	case AppointmentStatusAgendado:
		return to == AppointmentStatusConfirmado || to == AppointmentStatusFinalizado || to.IsCancelled()
	case AppointmentStatusConfirmado:
		return to == AppointmentStatusFinalizado || to.IsCancelled()
	case AppointmentStatusCanceladoAcordado,
		AppointmentStatusCanceladoFalta,
		AppointmentStatusCanceladoProfissional:
		return to == AppointmentStatusAgendado
	}
	return false
}

func (s AppointmentStatus) Billing() BillingOutcome {
	switch s {
	case AppointmentStatusCanceladoAcordado:
		return BillingOutcomeCredit
	case AppointmentStatusCanceladoFalta:
		return BillingOutcomeBilled
	case AppointmentStatusCanceladoProfissional:
		return BillingOutcomeNotBilled
	}
	return BillingOutcomeNone
}

// Tipos que aparecem no calendário mas nunca ocupam horário
func (t AppointmentType) DefaultBlocksTime() bool {
	switch t {
	case AppointmentTypeLembrete, AppointmentTypeNota:
		return false
	}
	return true
}
