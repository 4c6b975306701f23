package dto

import "github.com/tanishq4141/PROJECT-ALPHA/internal/models"

// GradebookEntry is one student's record for one batch assignment.
type GradebookEntry struct {
	StudentID    string                  `db:"student_id"`
	AssignmentID string                  `db:"assignment_id"`
	Status       models.AssignmentStatus `db:"status"`
	Score        int                     `db:"score"`
}

// GradebookColumn is a batch assignment rendered as a gradebook column.
type GradebookColumn struct {
	ID    string `db:"id"`
	Title string `db:"title"`
}

// GradebookFile is a rendered gradebook ready to be sent as an attachment.
type GradebookFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
