package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/repository"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
)

const teacherAssignmentsCachePrefix = "assignments:teacher:"

type assignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) (repository.Fanout, error)
	Distribute(ctx context.Context, assignmentID string, batchID *string, studentIDs []string) (repository.Fanout, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error)
}

type batchLookup interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistingStudentIDs(ctx context.Context, ids []string) ([]string, error)
}

type studentRecordReader interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.StudentAssignment, error)
}

type auditReader interface {
	ListByResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error)
}

// AssignmentService owns assignment creation, distribution and the read projections.
type AssignmentService struct {
	assignments assignmentStore
	batches     batchLookup
	users       studentDirectory
	records     studentRecordReader
	audit       auditReader
	cache       *CacheService
	metrics     *MetricsService
	activity    activityRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssignmentService constructs an AssignmentService. audit, cache, metrics and activity may be nil.
func NewAssignmentService(
	assignments assignmentStore,
	batches batchLookup,
	users studentDirectory,
	records studentRecordReader,
	audit auditReader,
	cache *CacheService,
	metrics *MetricsService,
	activity activityRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if activity == nil {
		activity = nopActivity{}
	}
	return &AssignmentService{
		assignments: assignments,
		batches:     batches,
		users:       users,
		records:     records,
		audit:       audit,
		cache:       cache,
		metrics:     metrics,
		activity:    activity,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a new assignment. When a batch is given, every current member
// receives a pending record in the same transaction.
func (s *AssignmentService) Create(ctx context.Context, actor models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can create assignments")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.BatchID = trimOptional(req.BatchID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, appErrors.Validation(err, "dueDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}

	if req.BatchID != nil {
		if _, err := s.ownedBatch(ctx, actor, *req.BatchID); err != nil {
			return nil, err
		}
	}

	assignment := &models.Assignment{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Questions:   dto.ToQuestions(req.Questions),
		TeacherID:   actor.ID,
		BatchID:     req.BatchID,
		DueDate:     dueDate,
		CreatedAt:   s.now(),
	}

	fanout, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create assignment")
	}

	s.metrics.AssignmentCreated(fanout.Created)
	_ = s.cache.Invalidate(ctx, teacherAssignmentsCachePrefix+actor.ID)
	s.activity.Record(events.Event{
		Type:       events.TypeAssignmentCreated,
		ActorID:    actor.ID,
		Resource:   "assignment",
		ResourceID: assignment.ID,
		Payload: map[string]interface{}{
			"batchId":        req.BatchID,
			"questions":      len(assignment.Questions),
			"pendingRecords": fanout.Created,
		},
		OccurredAt: assignment.CreatedAt,
	})
	s.logger.Info("assignment created",
		zap.String("assignment_id", assignment.ID), zap.String("teacher_id", actor.ID), zap.Int("pending_records", fanout.Created))

	return assignment, nil
}

// Distribute attaches pending records for the assignment to every target student. Targets are
// the union of the batch members and the explicit ids. Unknown student ids fail the whole call
// before anything is written.
func (s *AssignmentService) Distribute(ctx context.Context, actor models.Actor, req dto.DistributeRequest) (*dto.DistributionResult, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can assign assignments")
	}

	req.AssignmentID = strings.TrimSpace(req.AssignmentID)
	req.BatchID = trimOptional(req.BatchID)
	req.StudentIDs = uniqueTrimmed(req.StudentIDs)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assign payload")
	}
	if len(req.StudentIDs) == 0 && req.BatchID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentIds or batchId is required")
	}

	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Internal(err, "failed to load assignment")
	}
	if assignment.TeacherID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
	}

	if req.BatchID != nil {
		if _, err := s.ownedBatch(ctx, actor, *req.BatchID); err != nil {
			return nil, err
		}
	}

	if len(req.StudentIDs) > 0 {
		found, err := s.users.ExistingStudentIDs(ctx, req.StudentIDs)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to resolve students")
		}
		if missing := difference(req.StudentIDs, found); len(missing) > 0 {
			return nil, appErrors.WithDetails(appErrors.ErrNotFound, "students not found",
				map[string][]string{"missingStudentIds": missing})
		}
	}

	fanout, err := s.assignments.Distribute(ctx, assignment.ID, req.BatchID, req.StudentIDs)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to distribute assignment")
	}

	s.metrics.RecordsDistributed(fanout.Created)
	s.activity.Record(events.Event{
		Type:       events.TypeAssignmentDistributed,
		ActorID:    actor.ID,
		Resource:   "assignment",
		ResourceID: assignment.ID,
		Payload: map[string]interface{}{
			"batchId":    req.BatchID,
			"studentIds": req.StudentIDs,
			"targeted":   fanout.Targeted,
			"created":    fanout.Created,
		},
		OccurredAt: s.now(),
	})

	return &dto.DistributionResult{
		Message:      "Assignment assigned successfully",
		AssignmentID: assignment.ID,
		Targeted:     fanout.Targeted,
		Created:      fanout.Created,
	}, nil
}

// ForTeacher lists the teacher's assignments newest first. Answer keys are only included when
// the owning teacher is the caller. The second result reports a cache hit.
func (s *AssignmentService) ForTeacher(ctx context.Context, actor models.Actor, teacherID string) ([]dto.AssignmentView, bool, error) {
	teacherID = strings.TrimSpace(teacherID)
	if teacherID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}

	key := teacherAssignmentsCachePrefix + teacherID
	var list []models.Assignment
	hit := s.cache.Get(ctx, key, &list)
	if !hit {
		var err error
		list, err = s.assignments.ListByTeacher(ctx, teacherID)
		if err != nil {
			return nil, false, appErrors.Internal(err, "failed to list assignments")
		}
		s.cache.Set(ctx, key, list, 0)
	}

	revealKey := actor.IsTeacher() && actor.ID == teacherID
	out := make([]dto.AssignmentView, len(list))
	for i, a := range list {
		out[i] = dto.NewAssignmentView(a, revealKey)
	}
	return out, hit, nil
}

// ForStudent lists the assignments a student holds records for. Students may only read their
// own list and never see answer keys.
func (s *AssignmentService) ForStudent(ctx context.Context, actor models.Actor, studentID string) ([]dto.StudentAssignment, error) {
	studentID = strings.TrimSpace(studentID)
	if actor.IsStudent() && actor.ID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students can only view their own assignments")
	}
	if !actor.IsStudent() && !actor.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	rows, err := s.records.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list student assignments")
	}

	revealKey := actor.IsTeacher()
	out := make([]dto.StudentAssignment, len(rows))
	for i, row := range rows {
		out[i] = dto.StudentAssignment{
			AssignmentView: dto.NewAssignmentView(row.Assignment, revealKey),
			Status:         row.Status,
			Score:          row.Score,
			CompletedAt:    row.CompletedAt,
		}
	}
	return out, nil
}

func (s *AssignmentService) ownedBatch(ctx context.Context, actor models.Actor, batchID string) (*models.Batch, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Internal(err, "failed to load batch")
	}
	if batch.TeacherID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "batch belongs to another teacher")
	}
	return batch, nil
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due date %q: %w", raw, err)
	}
	return t.UTC(), nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// uniqueTrimmed trims values, drops blanks and removes duplicates keeping first occurrences.
func uniqueTrimmed(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// difference returns the elements of want absent from have, in want order.
func difference(want, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, h := range have {
		present[h] = struct{}{}
	}
	var missing []string
	for _, w := range want {
		if _, ok := present[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}

// History returns the audit trail of an assignment, newest first. Only the teacher who created
// the assignment may read it.
func (s *AssignmentService) History(ctx context.Context, actor models.Actor, assignmentID string) ([]models.AuditLog, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can view assignment activity")
	}

	assignment, err := s.assignments.FindByID(ctx, strings.TrimSpace(assignmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Internal(err, "failed to load assignment")
	}
	if assignment.TeacherID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
	}

	if s.audit == nil {
		return []models.AuditLog{}, nil
	}
	logs, err := s.audit.ListByResource(ctx, "assignment", assignment.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignment activity")
	}
	return logs, nil
}
