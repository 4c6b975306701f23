package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
)

type batchStore interface {
	Create(ctx context.Context, batch *models.Batch, studentIDs []string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.BatchDetail, error)
	Hydrate(ctx context.Context, batches []models.Batch) ([]models.BatchDetail, error)
}

type studentEmailResolver interface {
	FindStudentsByEmails(ctx context.Context, emails []string) ([]models.UserSummary, error)
}

// BatchService manages teacher-owned batches.
type BatchService struct {
	batches   batchStore
	users     studentEmailResolver
	metrics   *MetricsService
	activity  activityRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBatchService constructs a BatchService. metrics and activity may be nil.
func NewBatchService(batches batchStore, users studentEmailResolver, metrics *MetricsService, activity activityRecorder, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if activity == nil {
		activity = nopActivity{}
	}
	return &BatchService{
		batches:   batches,
		users:     users,
		metrics:   metrics,
		activity:  activity,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a batch with every listed email that belongs to a student. Emails that match
// no student are reported back, in input order, instead of failing the call.
func (s *BatchService) Create(ctx context.Context, actor models.Actor, req dto.CreateBatchRequest) (*dto.CreateBatchResult, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can create batches")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid batch payload")
	}

	emails := uniqueEmails(req.StudentEmails)
	students, err := s.users.FindStudentsByEmails(ctx, emails)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve student emails")
	}

	byEmail := make(map[string]string, len(students))
	for _, st := range students {
		byEmail[strings.ToLower(st.Email)] = st.ID
	}
	studentIDs := make([]string, 0, len(students))
	missing := make([]string, 0)
	for _, email := range emails {
		if id, ok := byEmail[strings.ToLower(email)]; ok {
			studentIDs = append(studentIDs, id)
			continue
		}
		missing = append(missing, email)
	}

	batch := &models.Batch{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   actor.ID,
		CreatedAt:   s.now(),
	}
	if err := s.batches.Create(ctx, batch, studentIDs); err != nil {
		return nil, appErrors.Internal(err, "failed to create batch")
	}

	details, err := s.batches.Hydrate(ctx, []models.Batch{*batch})
	if err != nil || len(details) != 1 {
		if err == nil {
			err = appErrors.ErrInternal
		}
		return nil, appErrors.Internal(err, "failed to load created batch")
	}

	s.metrics.BatchCreated()
	s.activity.Record(events.Event{
		Type:       events.TypeBatchCreated,
		ActorID:    actor.ID,
		Resource:   "batch",
		ResourceID: batch.ID,
		Payload: map[string]interface{}{
			"students":      len(studentIDs),
			"missingEmails": missing,
		},
		OccurredAt: batch.CreatedAt,
	})
	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID), zap.Int("students", len(studentIDs)), zap.Int("missing", len(missing)))

	return &dto.CreateBatchResult{
		Batch:         details[0],
		FoundCount:    len(studentIDs),
		MissingEmails: missing,
	}, nil
}

// ForTeacher lists the caller's batches newest first.
func (s *BatchService) ForTeacher(ctx context.Context, actor models.Actor) ([]models.BatchDetail, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can list batches")
	}
	batches, err := s.batches.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list batches")
	}
	return batches, nil
}

// uniqueEmails trims addresses, drops blanks and removes case-insensitive duplicates.
func uniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
