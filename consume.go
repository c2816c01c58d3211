package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// retry retries a function up to `attempts` times with linear backoff.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// HandleTask runs one dequeued task and drives the per-job state machine
// pending -> ingesting -> screening -> completed | failed. A failed
// process-resume task halts the pipeline for that job: screen-resumes is only
// enqueued on ingestion success, and the completion event is only broadcast on
// screening success.
func (p *Pipeline) HandleTask(ctx context.Context, task Task) error {
	switch task.Kind {
	case TaskProcessResume:
		p.setStatus(ctx, task.JobID, StatusIngesting, "")
		ids, err := p.ProcessJob(ctx, task.JobID)
		if err != nil {
			p.setStatus(ctx, task.JobID, StatusFailed, err.Error())
			return fmt.Errorf("process job %s: %w", task.JobID, err)
		}
		if len(ids) == 0 {
			// Nothing ingested, nothing to screen.
			p.setStatus(ctx, task.JobID, StatusCompleted, "")
			return nil
		}
		// Record the transition before the enqueue: once the task is on
		// the queue another worker may finish screening and write the
		// terminal status, which must not be overwritten.
		p.setStatus(ctx, task.JobID, StatusScreening, "")
		if err := p.queue.Enqueue(ctx, TaskScreenResumes, task.JobID); err != nil {
			p.setStatus(ctx, task.JobID, StatusFailed, err.Error())
			return fmt.Errorf("enqueue screening for job %s: %w", task.JobID, err)
		}
		return nil

	case TaskScreenResumes:
		if err := p.ScreenJob(ctx, task.JobID); err != nil {
			p.setStatus(ctx, task.JobID, StatusFailed, err.Error())
			return fmt.Errorf("screen job %s: %w", task.JobID, err)
		}
		p.setStatus(ctx, task.JobID, StatusCompleted, "")
		p.notify(EventScreeningComplete, ScreeningCompletePayload{JobID: task.JobID})
		return nil

	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

// WorkerConfig wires the pipeline to its queue consumers.
type WorkerConfig struct {
	AMQPUrl   string
	QueueName string
	Pipeline  *Pipeline
	Log       *zap.Logger
}

func worker(id int, cfg *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	log := cfg.Log.With(zap.Int("worker", id+1))

	conn, err := amqp.Dial(cfg.AMQPUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error opening rabbitmq channel", zap.Error(err))
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("failed to declare queue", zap.Error(err))
	}

	msgs, err := ch.Consume(
		cfg.QueueName,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq messages", zap.Error(err))
	}

	for msg := range msgs {
		var task Task
		if err := json.Unmarshal(msg.Body, &task); err != nil {
			log.Error("dropping malformed task", zap.Error(err))
			continue
		}

		log.Info("processing task",
			zap.String("kind", task.Kind),
			zap.String("job_id", task.JobID.String()))

		if err := cfg.Pipeline.HandleTask(context.Background(), task); err != nil {
			log.Error("task failed",
				zap.String("kind", task.Kind),
				zap.String("job_id", task.JobID.String()),
				zap.Error(err))
		}
	}
}

func (cfg *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		cfg.Log.Info("worker started", zap.Int("worker", i+1))
		go worker(i, cfg, &wg)
	}
	wg.Wait()
}
