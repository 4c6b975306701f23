package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/export"
)

type gradebookBatchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Students(ctx context.Context, batchID string) ([]models.UserSummary, error)
	Assignments(ctx context.Context, batchID string) ([]dto.GradebookColumn, error)
}

type gradebookRecordReader interface {
	ListForBatch(ctx context.Context, batchID string) ([]dto.GradebookEntry, error)
}

// GradebookService renders a batch's scores as a downloadable table.
type GradebookService struct {
	batches gradebookBatchReader
	records gradebookRecordReader
	logger  *zap.Logger
}

// NewGradebookService constructs a GradebookService.
func NewGradebookService(batches gradebookBatchReader, records gradebookRecordReader, logger *zap.Logger) *GradebookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{batches: batches, records: records, logger: logger}
}

// Export renders one row per batch member and one column per batch assignment. Cells hold the
// score for completed work, "pending" for outstanding work and are empty when unassigned.
func (s *GradebookService) Export(ctx context.Context, actor models.Actor, batchID, format string) (*dto.GradebookFile, error) {
	if !actor.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can export gradebooks")
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Validation(err, "format must be csv or pdf")
	}

	batch, err := s.batches.FindByID(ctx, strings.TrimSpace(batchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Internal(err, "failed to load batch")
	}
	if batch.TeacherID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "batch belongs to another teacher")
	}

	students, err := s.batches.Students(ctx, batch.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load batch students")
	}
	columns, err := s.batches.Assignments(ctx, batch.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load batch assignments")
	}
	entries, err := s.records.ListForBatch(ctx, batch.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load batch records")
	}

	body, err := renderer.Render(buildGradebook(batch, students, columns, entries))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render gradebook")
	}

	s.logger.Info("gradebook exported",
		zap.String("batch_id", batch.ID), zap.String("format", renderer.Extension()), zap.Int("students", len(students)))

	return &dto.GradebookFile{
		Filename:    fmt.Sprintf("%s-gradebook.%s", slug(batch.Name), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func buildGradebook(batch *models.Batch, students []models.UserSummary, columns []dto.GradebookColumn, entries []dto.GradebookEntry) export.Dataset {
	headers := []string{"Student", "Email"}
	headerFor := make(map[string]string, len(columns))
	taken := map[string]bool{"Student": true, "Email": true}
	for _, col := range columns {
		header := col.Title
		for n := 2; taken[header]; n++ {
			header = fmt.Sprintf("%s (%d)", col.Title, n)
		}
		taken[header] = true
		headerFor[col.ID] = header
		headers = append(headers, header)
	}

	cells := make(map[string]map[string]string, len(students))
	for _, e := range entries {
		header, ok := headerFor[e.AssignmentID]
		if !ok {
			continue
		}
		if cells[e.StudentID] == nil {
			cells[e.StudentID] = map[string]string{}
		}
		if e.Status == models.StatusCompleted {
			cells[e.StudentID][header] = strconv.Itoa(e.Score)
		} else {
			cells[e.StudentID][header] = string(models.StatusPending)
		}
	}

	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		row := map[string]string{"Student": st.Name, "Email": st.Email}
		for header, value := range cells[st.ID] {
			row[header] = value
		}
		rows = append(rows, row)
	}

	return export.Dataset{Title: batch.Name + " gradebook", Headers: headers, Rows: rows}
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r < unicode.MaxASCII {
				b.WriteRune(r)
				dash = false
				continue
			}
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "batch"
	}
	return out
}
