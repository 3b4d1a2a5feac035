package notifier

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

// Publica decisões de notificação já resolvidas num exchange; a entrega
// (WhatsApp, e-mail) é responsabilidade de quem consome.
type AmqpNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewAmqpNotifier(cfg *config.Config, logger out.LoggerPort) (*AmqpNotifier, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, notifications will be dropped",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		cfg.RabbitMQ.NotifyExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AmqpNotifier{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger.WithModule("AmqpNotifier"),
	}, nil
}

func (n *AmqpNotifier) PublishDecision(ctx context.Context, decision domain.NotificationDecision) error {
	// Nil quando o RabbitMQ está desligado: decisão descartada em silêncio
	if n == nil {
		return nil
	}

	body, err := json.Marshal(decision)
	if err != nil {
		return err
	}

	// Exemplo de routing key: agenda.notify.whatsapp
	routingKey := "agenda.notify." + string(decision.Channel)

	err = n.channel.PublishWithContext(ctx,
		n.cfg.RabbitMQ.NotifyExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		n.logger.Error("notifier.publish.failed", out.LogFields{
			"error":         err.Error(),
			"channel":       decision.Channel,
			"appointmentId": decision.AppointmentID,
		})
		return err
	}

	n.logger.Debug("notifier.publish.ok", out.LogFields{
		"routingKey":    routingKey,
		"template":      decision.Template,
		"appointmentId": decision.AppointmentID,
	})
	return nil
}

func (n *AmqpNotifier) Stop() error {
	if n == nil || n.channel == nil {
		return nil
	}

	if err := n.channel.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}
