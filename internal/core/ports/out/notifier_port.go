package out

import (
	"context"

	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
)

// Recebe decisões de notificação já resolvidas pelo núcleo. O envio
// (WhatsApp/e-mail) é responsabilidade de quem consome as mensagens.
type NotifierPort interface {
	PublishDecision(ctx context.Context, decision domain.NotificationDecision) error
}
