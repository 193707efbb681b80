package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLabels = "jobs:labels"
	QueueAlerts = "jobs:alerts"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLabelRender pushes a label pre-render job so the PNG cache is warm
// before the first label download.
func (d *Dispatcher) EnqueueLabelRender(ctx context.Context, sku string) error {
	return d.enqueue(ctx, QueueLabels, "label_render", LabelJobPayload{SKU: sku})
}

// EnqueueAlarmAlert pushes an alarm notification job.
func (d *Dispatcher) EnqueueAlarmAlert(ctx context.Context, payload AlarmAlertPayload) error {
	return d.enqueue(ctx, QueueAlerts, "alarm_alert", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers groups the per-queue processors, wired at the composition
// root so each has full access to its infrastructure dependencies.
type WorkerHandlers struct {
	Labels *LabelWorker
	Alerts *AlertWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, so idle workers cost no CPU.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueLabels, QueueAlerts}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			queue, raw := result[0], result[1]

			var job Job
			if err := json.Unmarshal([]byte(raw), &job); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("worker: invalid job envelope")
				continue
			}

			var procErr error
			switch queue {
			case QueueLabels:
				procErr = handlers.Labels.Process(ctx, job.Payload)
			case QueueAlerts:
				procErr = handlers.Alerts.Process(ctx, job.Payload)
			}
			if procErr != nil {
				SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, procErr.Error(), 1)
			}
		}
	}
}
