package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

// BatchRepository manages batches and their student/assignment links.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a batch repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create inserts the batch and its memberships in one transaction.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch, studentIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertBatch = `INSERT INTO batches (id, name, description, teacher_id, created_at)
VALUES (:id, :name, :description, :teacher_id, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertBatch, batch); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if len(studentIDs) > 0 {
		const insertMembers = `INSERT INTO batch_students (batch_id, student_id, added_at)
SELECT $1::text, student_id, $3::timestamptz FROM UNNEST($2::text[]) AS student_id
ON CONFLICT (batch_id, student_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, insertMembers, batch.ID, pq.Array(studentIDs), batch.CreatedAt); err != nil {
			return fmt.Errorf("insert batch students: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// FindByID returns a batch by identifier or sql.ErrNoRows.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	const query = `SELECT id, name, description, teacher_id, created_at FROM batches WHERE id = $1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return &batch, nil
}

// ListByTeacher returns the teacher's batches newest first with references resolved.
func (r *BatchRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.BatchDetail, error) {
	const query = `SELECT id, name, description, teacher_id, created_at FROM batches
WHERE teacher_id = $1 ORDER BY created_at DESC, id`
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query, teacherID); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return r.Hydrate(ctx, batches)
}

// Hydrate resolves owner, students and assignment ids for the given batches.
func (r *BatchRepository) Hydrate(ctx context.Context, batches []models.Batch) ([]models.BatchDetail, error) {
	details := make([]models.BatchDetail, len(batches))
	if len(batches) == 0 {
		return details, nil
	}

	ids := make([]string, len(batches))
	teacherIDs := make([]string, 0, 1)
	seenTeacher := map[string]bool{}
	index := make(map[string]int, len(batches))
	for i, b := range batches {
		ids[i] = b.ID
		index[b.ID] = i
		details[i] = models.BatchDetail{Batch: b, Students: []models.UserSummary{}, AssignmentIDs: []string{}}
		if !seenTeacher[b.TeacherID] {
			seenTeacher[b.TeacherID] = true
			teacherIDs = append(teacherIDs, b.TeacherID)
		}
	}

	var teachers []models.UserSummary
	const teacherQuery = `SELECT id, name, email FROM users WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &teachers, teacherQuery, pq.Array(teacherIDs)); err != nil {
		return nil, fmt.Errorf("resolve batch teachers: %w", err)
	}
	byID := make(map[string]models.UserSummary, len(teachers))
	for _, t := range teachers {
		byID[t.ID] = t
	}

	var members []struct {
		BatchID string `db:"batch_id"`
		models.UserSummary
	}
	const memberQuery = `SELECT bs.batch_id, u.id, u.name, u.email
FROM batch_students bs JOIN users u ON u.id = bs.student_id
WHERE bs.batch_id = ANY($1) ORDER BY u.name, u.email`
	if err := r.db.SelectContext(ctx, &members, memberQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("resolve batch students: %w", err)
	}

	var links []struct {
		BatchID      string `db:"batch_id"`
		AssignmentID string `db:"assignment_id"`
	}
	const linkQuery = `SELECT batch_id, assignment_id FROM batch_assignments
WHERE batch_id = ANY($1) ORDER BY added_at, assignment_id`
	if err := r.db.SelectContext(ctx, &links, linkQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("resolve batch assignments: %w", err)
	}

	for i := range details {
		details[i].Teacher = byID[details[i].TeacherID]
	}
	for _, m := range members {
		i := index[m.BatchID]
		details[i].Students = append(details[i].Students, m.UserSummary)
	}
	for _, l := range links {
		i := index[l.BatchID]
		details[i].AssignmentIDs = append(details[i].AssignmentIDs, l.AssignmentID)
	}
	return details, nil
}

// Students returns the batch members ordered by name.
func (r *BatchRepository) Students(ctx context.Context, batchID string) ([]models.UserSummary, error) {
	const query = `SELECT u.id, u.name, u.email
FROM batch_students bs JOIN users u ON u.id = bs.student_id
WHERE bs.batch_id = $1 ORDER BY u.name, u.email`
	var students []models.UserSummary
	if err := r.db.SelectContext(ctx, &students, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch students: %w", err)
	}
	return students, nil
}

// Assignments returns the assignments pushed to the batch, oldest first.
func (r *BatchRepository) Assignments(ctx context.Context, batchID string) ([]dto.GradebookColumn, error) {
	const query = `SELECT a.id, a.title
FROM batch_assignments ba JOIN assignments a ON a.id = ba.assignment_id
WHERE ba.batch_id = $1 ORDER BY a.created_at, a.id`
	var columns []dto.GradebookColumn
	if err := r.db.SelectContext(ctx, &columns, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch assignments: %w", err)
	}
	return columns, nil
}
