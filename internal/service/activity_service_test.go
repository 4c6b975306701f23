package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/jobs"
)

type memAuditWriter struct {
	mu   sync.Mutex
	logs map[string]models.AuditLog
	err  error
}

func (m *memAuditWriter) Create(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.logs == nil {
		m.logs = map[string]models.AuditLog{}
	}
	m.logs[log.ID] = *log
	return nil
}

func (m *memAuditWriter) all() []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l)
	}
	return out
}

func (m *memAuditWriter) ListByResource(_ context.Context, resource, resourceID string) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AuditLog{}
	for _, l := range m.logs {
		if l.Resource == resource && l.ResourceID != nil && *l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type flakyPublisher struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	published []events.Event
}

func (p *flakyPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, e)
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

func (p *flakyPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestActivityWritesAuditAndPublishes(t *testing.T) {
	audit := &memAuditWriter{}
	pub := &flakyPublisher{}
	svc := NewActivityService(audit, pub, NewMetricsService(), nil, jobs.QueueConfig{Workers: 1, BufferSize: 8})
	svc.Start()

	svc.Record(events.Event{
		Type:       events.TypeAssignmentSubmitted,
		ActorID:    "s1",
		Resource:   "assignment",
		ResourceID: "a1",
		Payload:    map[string]interface{}{"score": 75},
		OccurredAt: time.Now().UTC(),
	})

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	logs := audit.all()
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionAssignmentSubmit, logs[0].Action)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, "s1", *logs[0].UserID)
	assert.Equal(t, "a1", *logs[0].ResourceID)
	assert.NotEmpty(t, logs[0].ID)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(logs[0].Payload, &payload))
	assert.Equal(t, 75, payload["score"])
}

func TestActivityRetriesWithoutDuplicatingAudit(t *testing.T) {
	audit := &memAuditWriter{}
	pub := &flakyPublisher{failFirst: 1}
	svc := NewActivityService(audit, pub, nil, nil, jobs.QueueConfig{Workers: 1, BufferSize: 8, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	svc.Start()

	svc.Record(events.Event{Type: events.TypeBatchCreated, ActorID: "t1", Resource: "batch", ResourceID: "b1"})

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()
	assert.Len(t, audit.all(), 1)
}

func TestActivityDeliversEventsRecordedBeforeStop(t *testing.T) {
	audit := &memAuditWriter{}
	pub := &flakyPublisher{}
	svc := NewActivityService(audit, pub, nil, nil, jobs.QueueConfig{Workers: 1, BufferSize: 16})
	svc.Start()

	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		svc.Record(events.Event{Type: events.TypeAssignmentSubmitted, ActorID: "s1", Resource: "assignment", ResourceID: id})
	}
	svc.Stop()

	assert.Len(t, audit.all(), 5)
	assert.Equal(t, 5, pub.count())
}

func TestActivityDropsWhenStopped(t *testing.T) {
	audit := &memAuditWriter{}
	metrics := NewMetricsService()
	svc := NewActivityService(audit, nil, metrics, nil, jobs.QueueConfig{})

	assert.NotPanics(t, func() {
		svc.Record(events.Event{Type: events.TypeAssignmentCreated, ResourceID: "a1"})
	})
	assert.Empty(t, audit.all())
}
