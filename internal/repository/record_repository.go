package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

// RecordRepository stores per-student assignment records.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a record repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Complete marks the record completed with the given score, creating it when absent.
// Concurrent calls for the same pair resolve as last write wins.
func (r *RecordRepository) Complete(ctx context.Context, studentID, assignmentID string, score int, at time.Time) (*models.AssignmentRecord, error) {
	const query = `INSERT INTO assignment_records (student_id, assignment_id, status, score, assigned_at, completed_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5, $5)
ON CONFLICT (student_id, assignment_id)
DO UPDATE SET status = EXCLUDED.status, score = EXCLUDED.score, completed_at = EXCLUDED.completed_at, updated_at = EXCLUDED.updated_at
RETURNING student_id, assignment_id, status, score, assigned_at, completed_at, updated_at`
	var record models.AssignmentRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, assignmentID, models.StatusCompleted, score, at); err != nil {
		return nil, fmt.Errorf("complete assignment record: %w", err)
	}
	return &record, nil
}

// ListForStudent returns every assignment the student holds a record for, most recently
// assigned first.
func (r *RecordRepository) ListForStudent(ctx context.Context, studentID string) ([]models.StudentAssignment, error) {
	const query = `SELECT a.id, a.title, a.description, a.questions, a.teacher_id, a.batch_id, a.due_date, a.created_at,
    ar.status, ar.score, ar.completed_at
FROM assignment_records ar
JOIN assignments a ON a.id = ar.assignment_id
WHERE ar.student_id = $1
ORDER BY ar.assigned_at DESC, a.created_at DESC, a.id`
	rows := []models.StudentAssignment{}
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student assignments: %w", err)
	}
	return rows, nil
}

// ListForBatch returns the records of batch members for assignments pushed to the batch.
func (r *RecordRepository) ListForBatch(ctx context.Context, batchID string) ([]dto.GradebookEntry, error) {
	const query = `SELECT ar.student_id, ar.assignment_id, ar.status, ar.score
FROM assignment_records ar
JOIN batch_students bs ON bs.student_id = ar.student_id AND bs.batch_id = $1
JOIN batch_assignments ba ON ba.assignment_id = ar.assignment_id AND ba.batch_id = $1`
	var entries []dto.GradebookEntry
	if err := r.db.SelectContext(ctx, &entries, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch records: %w", err)
	}
	return entries, nil
}
