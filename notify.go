package main

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const notificationExchange = "screening.updates"

// Notifier broadcasts pipeline events to all connected listeners over a
// fanout exchange. One instance is constructed at process start and handed to
// every component that publishes. Delivery is fire-and-forget, at most once.
type Notifier struct {
	conn *amqp.Connection
	log  *zap.Logger
}

func NewNotifier(conn *amqp.Connection, log *zap.Logger) (*Notifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open notification channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		notificationExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare notification exchange: %w", err)
	}

	return &Notifier{conn: conn, log: log}, nil
}

// Broadcast publishes the event to every currently connected subscriber.
// Publishing through an uninitialized notifier is a reported error, not a
// fatal one: the event is logged and dropped.
func (n *Notifier) Broadcast(event string, payload any) error {
	if n == nil || n.conn == nil {
		if n != nil && n.log != nil {
			n.log.Error("notification channel not initialized, dropping event", zap.String("event", event))
		}
		return nil
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	return ch.Publish(
		notificationExchange,
		event, // routing key, ignored by fanout
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
