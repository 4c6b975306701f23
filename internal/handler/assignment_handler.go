package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/middleware"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	Distribute(ctx context.Context, actor models.Actor, req dto.DistributeRequest) (*dto.DistributionResult, error)
	ForTeacher(ctx context.Context, actor models.Actor, teacherID string) ([]dto.AssignmentView, bool, error)
	ForStudent(ctx context.Context, actor models.Actor, studentID string) ([]dto.StudentAssignment, error)
	History(ctx context.Context, actor models.Actor, assignmentID string) ([]models.AuditLog, error)
}

type submissionService interface {
	Submit(ctx context.Context, actor models.Actor, req dto.SubmitRequest) (*dto.SubmitResult, error)
}

// AssignmentHandler exposes the assignment lifecycle endpoints.
type AssignmentHandler struct {
	assignments assignmentService
	submissions submissionService
}

// NewAssignmentHandler constructs an AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService, submissions submissionService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, submissions: submissions}
}

// Create godoc
// @Summary Create assignment
// @Description Creates a multiple-choice assignment, optionally distributing it to a batch
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments/create [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid assignment payload"))
		return
	}

	assignment, err := h.assignments.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewAssignmentView(*assignment, true))
}

// Assign godoc
// @Summary Distribute assignment
// @Description Gives the assignment to the listed students and/or every member of a batch
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.DistributeRequest true "Distribution payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid assign payload"))
		return
	}

	res, err := h.assignments.Distribute(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// Submit godoc
// @Summary Submit answers
// @Description Scores the answers and completes the caller's record
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/submit [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid submission payload"))
		return
	}

	res, err := h.submissions.Submit(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// ForStudent godoc
// @Summary List a student's assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/student/{id} [get]
func (h *AssignmentHandler) ForStudent(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.assignments.ForStudent(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StudentAssignmentList{Assignments: list})
}

// ForTeacher godoc
// @Summary List a teacher's assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/teacher/{id} [get]
func (h *AssignmentHandler) ForTeacher(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, hit, err := h.assignments.ForTeacher(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, dto.TeacherAssignmentList{Assignments: list}, middleware.ExtractMeta(c))
}

// History godoc
// @Summary Assignment activity
// @Description Lists the audit trail of an assignment, newest first. Owner only.
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/activity/{id} [get]
func (h *AssignmentHandler) History(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	logs, err := h.assignments.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AssignmentActivity{Activity: logs})
}
