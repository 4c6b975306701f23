package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
)

type assignmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

type recordWriter interface {
	Complete(ctx context.Context, studentID, assignmentID string, score int, at time.Time) (*models.AssignmentRecord, error)
}

// SubmissionService grades submissions and completes the student's record.
type SubmissionService struct {
	assignments assignmentReader
	records     recordWriter
	metrics     *MetricsService
	activity    activityRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService. metrics and activity may be nil.
func NewSubmissionService(assignments assignmentReader, records recordWriter, metrics *MetricsService, activity activityRecorder, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if activity == nil {
		activity = nopActivity{}
	}
	return &SubmissionService{
		assignments: assignments,
		records:     records,
		metrics:     metrics,
		activity:    activity,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit scores the answers and stores the result as the student's completed record,
// overwriting any earlier submission.
func (s *SubmissionService) Submit(ctx context.Context, actor models.Actor, req dto.SubmitRequest) (*dto.SubmitResult, error) {
	if !actor.IsStudent() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can submit assignments")
	}

	req.AssignmentID = strings.TrimSpace(req.AssignmentID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid submission payload")
	}

	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Internal(err, "failed to load assignment")
	}

	correct, total, score := Grade(assignment.Questions, req.Answers)

	if _, err := s.records.Complete(ctx, actor.ID, assignment.ID, score, s.now()); err != nil {
		return nil, appErrors.Internal(err, "failed to record submission")
	}

	s.metrics.SubmissionScored(score)
	s.activity.Record(events.Event{
		Type:       events.TypeAssignmentSubmitted,
		ActorID:    actor.ID,
		Resource:   "assignment",
		ResourceID: assignment.ID,
		Payload: map[string]interface{}{
			"score":          score,
			"correctAnswers": correct,
			"totalQuestions": total,
		},
		OccurredAt: s.now(),
	})
	s.logger.Debug("submission graded",
		zap.String("assignment_id", assignment.ID), zap.String("student_id", actor.ID), zap.Int("score", score))

	return &dto.SubmitResult{
		AssignmentID:   assignment.ID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}, nil
}
