package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/jobs"
)

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// activityRecorder receives lifecycle events from the core services.
type activityRecorder interface {
	Record(event events.Event)
}

type nopActivity struct{}

func (nopActivity) Record(events.Event) {}

var auditActions = map[string]string{
	events.TypeAssignmentCreated:     models.AuditActionAssignmentCreate,
	events.TypeAssignmentDistributed: models.AuditActionAssignmentDistribute,
	events.TypeAssignmentSubmitted:   models.AuditActionAssignmentSubmit,
	events.TypeBatchCreated:          models.AuditActionBatchCreate,
}

// ActivityService delivers lifecycle events off the request path: each event is written to
// the audit log and published to the event stream by a worker pool.
type ActivityService struct {
	audit     auditWriter
	publisher events.Publisher
	metrics   *MetricsService
	logger    *zap.Logger
	queue     *jobs.Queue
}

// NewActivityService wires the worker pool. Call Start before recording events.
func NewActivityService(audit auditWriter, publisher events.Publisher, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &ActivityService{audit: audit, publisher: publisher, metrics: metrics, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("activity", s.handle, cfg)
	return s
}

// Start launches the workers. They run until Stop, independent of any request or signal
// context, so events recorded by in-flight requests during shutdown are still delivered.
func (s *ActivityService) Start() {
	s.queue.Start(context.Background())
}

// Stop drains pending events and stops the workers.
func (s *ActivityService) Stop() {
	s.queue.Stop()
}

// Record enqueues an event without blocking. Events are dropped, with a warning, when the
// buffer is full.
func (s *ActivityService) Record(event events.Event) {
	job := jobs.Job{ID: uuid.NewString(), Type: event.Type, Payload: event}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.metrics.EventHandled(event.Type, "dropped")
		s.logger.Warn("lifecycle event dropped",
			zap.String("type", event.Type), zap.String("resource_id", event.ResourceID), zap.Error(err))
	}
}

// handle is idempotent per job id so retries never duplicate audit rows.
func (s *ActivityService) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(events.Event)
	if !ok {
		return nil
	}

	if s.audit != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			payload = []byte(`{}`)
		}
		entry := &models.AuditLog{
			ID:        job.ID,
			Action:    auditActions[event.Type],
			Resource:  event.Resource,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		}
		if entry.Action == "" {
			entry.Action = event.Type
		}
		if event.ActorID != "" {
			entry.UserID = &event.ActorID
		}
		if event.ResourceID != "" {
			entry.ResourceID = &event.ResourceID
		}
		if err := s.audit.Create(ctx, entry); err != nil {
			s.metrics.EventHandled(event.Type, "failed")
			return fmt.Errorf("write audit log: %w", err)
		}
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.EventHandled(event.Type, "failed")
		return err
	}
	s.metrics.EventHandled(event.Type, "delivered")
	return nil
}
