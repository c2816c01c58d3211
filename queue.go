package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const pipelineQueue = "resume-pipeline"

// AMQPQueue is the durable task queue the pipeline runs on.
type AMQPQueue struct {
	conn *amqp.Connection
	name string
}

func NewAMQPQueue(conn *amqp.Connection, name string) (*AMQPQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open queue channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		name,
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}

	return &AMQPQueue{conn: conn, name: name}, nil
}

// Enqueue publishes one task. This is also the sole external entry point into
// the pipeline: callers enqueue a process-resume task and everything after is
// internal progression.
func (q *AMQPQueue) Enqueue(ctx context.Context, kind string, jobID uuid.UUID) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(Task{Kind: kind, JobID: jobID})
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	return ch.Publish(
		"", // default exchange
		q.name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
