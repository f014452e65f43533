package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	"github.com/campus-medios/av-booking-api/pkg/jobs"
)

// NotifierService publishes lifecycle events to a Redis channel through a
// background worker queue. Emission is best-effort and never blocks or fails
// the mutation that produced the event.
type NotifierService struct {
	queue   *jobs.Queue
	client  *redis.Client
	channel string
	enabled bool
	logger  *zap.Logger
}

// NewNotifierService constructs NotifierService and its worker queue. Call
// Start before emitting and Stop on shutdown.
func NewNotifierService(client *redis.Client, cfg config.EventsConfig, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotifierService{
		client:  client,
		channel: cfg.Channel,
		enabled: cfg.Enabled && client != nil,
		logger:  logger,
	}
	n.queue = jobs.NewQueue("lifecycle-events", n.publish, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return n
}

// Start launches the worker pool.
func (n *NotifierService) Start(ctx context.Context) {
	if n.enabled {
		n.queue.Start(ctx)
	}
}

// Stop drains the worker pool.
func (n *NotifierService) Stop() {
	if n.enabled {
		n.queue.Stop()
	}
}

// Emit enqueues one event for publication. Failures are logged and dropped.
func (n *NotifierService) Emit(event models.LifecycleEvent) {
	if !n.enabled {
		return
	}
	event.ID = uuid.NewString()
	event.EmittedAt = time.Now().UTC()

	job := jobs.Job{ID: event.ID, Type: event.Name, Payload: event}
	if err := n.queue.Enqueue(job); err != nil {
		n.logger.Sugar().Warnw("dropping lifecycle event", "event", event.Name, "id_solicitud", event.ReservationID, "error", err)
	}
}

func (n *NotifierService) publish(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.LifecycleEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish lifecycle event: %w", err)
	}
	return nil
}
