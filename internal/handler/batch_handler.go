package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/response"
)

type batchService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateBatchRequest) (*dto.CreateBatchResult, error)
	ForTeacher(ctx context.Context, actor models.Actor) ([]models.BatchDetail, error)
}

type gradebookService interface {
	Export(ctx context.Context, actor models.Actor, batchID, format string) (*dto.GradebookFile, error)
}

// BatchHandler exposes batch management and gradebook export.
type BatchHandler struct {
	batches   batchService
	gradebook gradebookService
}

// NewBatchHandler constructs a BatchHandler.
func NewBatchHandler(batches batchService, gradebook gradebookService) *BatchHandler {
	return &BatchHandler{batches: batches, gradebook: gradebook}
}

// Create godoc
// @Summary Create batch
// @Description Creates a batch from student emails; unknown emails are reported, not fatal
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body dto.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /batches/create [post]
func (h *BatchHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid batch payload"))
		return
	}

	res, err := h.batches.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// List godoc
// @Summary List batches
// @Description Lists the caller's batches newest first
// @Tags Batches
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	batches, err := h.batches.ForTeacher(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BatchList{Batches: batches})
}

// Gradebook godoc
// @Summary Export gradebook
// @Description Downloads the batch gradebook as CSV or PDF
// @Tags Batches
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Batch ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/gradebook [get]
func (h *BatchHandler) Gradebook(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.gradebook.Export(c.Request.Context(), actor, c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
