package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	"github.com/uniterm/uniterm-api/pkg/jobs"
)

type auditWriter interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuditEvent describes one domain event bound for the audit trail.
type AuditEvent struct {
	Action     string
	Resource   string
	ResourceID string
	ActorRole  string
	ActorName  string
	Details    map[string]interface{}
}

// AuditTrail records domain events asynchronously through a worker queue so
// the synchronous validation path never blocks on audit writes.
type AuditTrail struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditTrail wires the audit queue to the given writer.
func NewAuditTrail(writer auditWriter, workers, bufferSize int, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(AuditEvent)
		if !ok {
			return fmt.Errorf("unexpected audit payload %T", job.Payload)
		}

		entry := &models.AuditLog{
			Action:   event.Action,
			Resource: event.Resource,
		}
		if event.ResourceID != "" {
			id := event.ResourceID
			entry.ResourceID = &id
		}
		if event.ActorRole != "" {
			role := event.ActorRole
			entry.ActorRole = &role
		}
		if event.ActorName != "" {
			name := event.ActorName
			entry.ActorName = &name
		}
		if event.Details != nil {
			payload, err := json.Marshal(event.Details)
			if err != nil {
				return fmt.Errorf("marshal audit details: %w", err)
			}
			entry.Details = payload
		}

		return writer.Create(ctx, entry)
	}

	return &AuditTrail{
		queue: jobs.NewQueue("audit", handler, jobs.QueueConfig{
			Workers:    workers,
			BufferSize: bufferSize,
			Logger:     logger,
		}),
		logger: logger,
	}
}

// Start launches the queue workers.
func (a *AuditTrail) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains the queue workers.
func (a *AuditTrail) Stop() {
	a.queue.Stop()
}

// Record enqueues an event; failures are logged, never propagated, because
// the audit trail is best-effort by design.
func (a *AuditTrail) Record(event AuditEvent) {
	if err := a.queue.Enqueue(jobs.Job{Type: event.Action, Payload: event}); err != nil {
		a.logger.Warn("failed to enqueue audit event", zap.String("action", event.Action), zap.Error(err))
	}
}
