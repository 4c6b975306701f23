package dto

import (
	"encoding/json"
	"time"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

// QuestionInput is a question as submitted by a teacher. CorrectOption is a pointer so a
// missing key fails validation instead of decoding as option 0.
type QuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectOption *int     `json:"correctOption" validate:"required,gte=0"`
}

// CreateAssignmentRequest is the POST /assignments/create payload.
type CreateAssignmentRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Questions   []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	DueDate     string          `json:"dueDate" validate:"required"`
	BatchID     *string         `json:"batchId,omitempty" validate:"omitempty,min=1"`
}

// ToQuestions converts validated inputs into stored questions.
func ToQuestions(in []QuestionInput) models.Questions {
	out := make(models.Questions, len(in))
	for i, q := range in {
		out[i] = models.Question{Question: q.Question, Options: q.Options}
		if q.CorrectOption != nil {
			out[i].CorrectOption = *q.CorrectOption
		}
	}
	return out
}

// DistributeRequest is the POST /assignments/assign payload. At least one target is required.
type DistributeRequest struct {
	AssignmentID string   `json:"assignmentId" validate:"required"`
	StudentIDs   []string `json:"studentIds,omitempty" validate:"omitempty,dive,required"`
	BatchID      *string  `json:"batchId,omitempty" validate:"omitempty,min=1"`
}

// DistributionResult reports how many students were targeted and how many new records exist.
type DistributionResult struct {
	Message      string `json:"message"`
	AssignmentID string `json:"assignmentId"`
	Targeted     int    `json:"targeted"`
	Created      int    `json:"created"`
}

// SubmitRequest is the POST /assignments/submit payload. Answers are kept raw so malformed
// entries score as wrong instead of failing the bind.
type SubmitRequest struct {
	AssignmentID string            `json:"assignmentId" validate:"required"`
	Answers      []json.RawMessage `json:"answers"`
}

// SubmitResult is returned after scoring a submission.
type SubmitResult struct {
	AssignmentID   string `json:"assignmentId"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
}

// QuestionView renders a question; CorrectOption is omitted for student callers.
type QuestionView struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correctOption,omitempty"`
}

// AssignmentView renders an assignment for API responses.
type AssignmentView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuestionView `json:"questions"`
	TeacherID   string         `json:"teacherId"`
	BatchID     *string        `json:"batchId,omitempty"`
	DueDate     time.Time      `json:"dueDate"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewAssignmentView projects an assignment, including answer keys only when revealKey is set.
func NewAssignmentView(a models.Assignment, revealKey bool) AssignmentView {
	questions := make([]QuestionView, len(a.Questions))
	for i, q := range a.Questions {
		view := QuestionView{Question: q.Question, Options: q.Options}
		if revealKey {
			correct := q.CorrectOption
			view.CorrectOption = &correct
		}
		questions[i] = view
	}
	return AssignmentView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Questions:   questions,
		TeacherID:   a.TeacherID,
		BatchID:     a.BatchID,
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
	}
}

// StudentAssignment is one entry of a student's assignment list.
type StudentAssignment struct {
	AssignmentView
	Status      models.AssignmentStatus `json:"status"`
	Score       int                     `json:"score"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
}

// StudentAssignmentList wraps a student's listing as { assignments: [...] }.
type StudentAssignmentList struct {
	Assignments []StudentAssignment `json:"assignments"`
}

// TeacherAssignmentList wraps a teacher's listing as { assignments: [...] }.
type TeacherAssignmentList struct {
	Assignments []AssignmentView `json:"assignments"`
}

// AssignmentActivity wraps an assignment's audit trail as { activity: [...] }.
type AssignmentActivity struct {
	Activity []models.AuditLog `json:"activity"`
}
