package models

import "time"

// Batch is a teacher-owned group of students.
type Batch struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	TeacherID   string    `db:"teacher_id" json:"teacherId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// BatchDetail is a batch with its member, assignment and owner references resolved.
type BatchDetail struct {
	Batch
	Teacher       UserSummary   `json:"teacher"`
	Students      []UserSummary `json:"students"`
	AssignmentIDs []string      `json:"assignments"`
}
