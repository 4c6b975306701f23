package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

const assignmentColumns = `id, title, description, questions, teacher_id, batch_id, due_date, created_at`

// Fanout reports the outcome of attaching an assignment to a set of students.
type Fanout struct {
	Targeted int `db:"targeted"`
	Created  int `db:"created"`
}

// AssignmentRepository stores assignment definitions and distributes them to students.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists the assignment and, when it originates from a batch, links it to the batch
// and creates a pending record for every current member. All writes share one transaction.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) (fanout Fanout, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Fanout{}, fmt.Errorf("begin assignment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO assignments (id, title, description, questions, teacher_id, batch_id, due_date, created_at)
VALUES (:id, :title, :description, :questions, :teacher_id, :batch_id, :due_date, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, assignment); err != nil {
		return Fanout{}, fmt.Errorf("insert assignment: %w", err)
	}

	if assignment.BatchID != nil {
		fanout, err = distribute(ctx, tx, assignment.ID, assignment.BatchID, nil, assignment.CreatedAt)
		if err != nil {
			return Fanout{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return Fanout{}, fmt.Errorf("commit assignment: %w", err)
	}
	return fanout, nil
}

// Distribute attaches the assignment to the batch (if any) and inserts a pending record for
// each distinct target student that has none. Existing records are never modified.
func (r *AssignmentRepository) Distribute(ctx context.Context, assignmentID string, batchID *string, studentIDs []string) (fanout Fanout, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Fanout{}, fmt.Errorf("begin distribution transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fanout, err = distribute(ctx, tx, assignmentID, batchID, studentIDs, time.Now().UTC())
	if err != nil {
		return Fanout{}, err
	}

	if err = tx.Commit(); err != nil {
		return Fanout{}, fmt.Errorf("commit distribution: %w", err)
	}
	return fanout, nil
}

func distribute(ctx context.Context, tx *sqlx.Tx, assignmentID string, batchID *string, studentIDs []string, at time.Time) (Fanout, error) {
	if batchID != nil {
		const link = `INSERT INTO batch_assignments (batch_id, assignment_id, added_at) VALUES ($1, $2, $3)
ON CONFLICT (batch_id, assignment_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, link, *batchID, assignmentID, at); err != nil {
			return Fanout{}, fmt.Errorf("link assignment to batch: %w", err)
		}
	}

	const fanoutQuery = `WITH targets AS (
    SELECT student_id FROM batch_students WHERE batch_id = $2::text
    UNION
    SELECT UNNEST($3::text[])
), inserted AS (
    INSERT INTO assignment_records (student_id, assignment_id, status, score, assigned_at, updated_at)
    SELECT student_id, $1::text, 'pending', 0, $4::timestamptz, $4::timestamptz FROM targets
    ON CONFLICT (student_id, assignment_id) DO NOTHING
    RETURNING student_id
)
SELECT (SELECT COUNT(*) FROM targets) AS targeted, (SELECT COUNT(*) FROM inserted) AS created`

	var batch sql.NullString
	if batchID != nil {
		batch = sql.NullString{String: *batchID, Valid: true}
	}
	var fanout Fanout
	if err := tx.GetContext(ctx, &fanout, fanoutQuery, assignmentID, batch, pq.Array(studentIDs), at); err != nil {
		return Fanout{}, fmt.Errorf("create pending records: %w", err)
	}
	return fanout, nil
}

// FindByID returns an assignment by identifier or sql.ErrNoRows.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// ListByTeacher returns assignments created by the teacher, newest first.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE teacher_id = $1 ORDER BY created_at DESC, id`
	assignments := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}
