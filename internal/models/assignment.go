package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AssignmentStatus tracks a student's progress on one assignment.
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusCompleted AssignmentStatus = "completed"
)

// Question is a single multiple-choice item. CorrectOption indexes Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

// Questions is the ordered question list stored as a JSONB column.
type Questions []Question

// Value implements driver.Valuer.
func (q Questions) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner.
func (q *Questions) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*q = Questions{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("questions: unsupported scan type %T", src)
	}
	return json.Unmarshal(raw, q)
}

// Assignment is an immutable multiple-choice quiz definition.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Questions   Questions `db:"questions" json:"questions"`
	TeacherID   string    `db:"teacher_id" json:"teacherId"`
	BatchID     *string   `db:"batch_id" json:"batchId,omitempty"`
	DueDate     time.Time `db:"due_date" json:"dueDate"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// AssignmentRecord is the per (student, assignment) progress entry.
type AssignmentRecord struct {
	StudentID    string           `db:"student_id" json:"studentId"`
	AssignmentID string           `db:"assignment_id" json:"assignmentId"`
	Status       AssignmentStatus `db:"status" json:"status"`
	Score        int              `db:"score" json:"score"`
	AssignedAt   time.Time        `db:"assigned_at" json:"assignedAt"`
	CompletedAt  *time.Time       `db:"completed_at" json:"completedAt,omitempty"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updatedAt"`
}

// StudentAssignment joins an assignment with one student's record for it.
type StudentAssignment struct {
	Assignment
	Status      AssignmentStatus `db:"status"`
	Score       int              `db:"score"`
	CompletedAt *time.Time       `db:"completed_at"`
}
