package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
)

type batchServiceMock struct {
	created *dto.CreateBatchResult
	list    []models.BatchDetail
	err     error
	got     dto.CreateBatchRequest
}

func (m *batchServiceMock) Create(_ context.Context, _ models.Actor, req dto.CreateBatchRequest) (*dto.CreateBatchResult, error) {
	m.got = req
	return m.created, m.err
}

func (m *batchServiceMock) ForTeacher(context.Context, models.Actor) ([]models.BatchDetail, error) {
	return m.list, m.err
}

type gradebookServiceMock struct {
	file      *dto.GradebookFile
	err       error
	gotBatch  string
	gotFormat string
}

func (m *gradebookServiceMock) Export(_ context.Context, _ models.Actor, batchID, format string) (*dto.GradebookFile, error) {
	m.gotBatch, m.gotFormat = batchID, format
	return m.file, m.err
}

func TestCreateBatchReturnsMissingEmails(t *testing.T) {
	svc := &batchServiceMock{created: &dto.CreateBatchResult{
		Batch:         models.BatchDetail{Batch: models.Batch{ID: "b1", Name: "Period 1"}},
		FoundCount:    2,
		MissingEmails: []string{"nobody@school.test"},
	}}
	h := NewBatchHandler(svc, &gradebookServiceMock{})

	c, w := newGinContext(http.MethodPost, "/api/batches/create",
		[]byte(`{"name":"Period 1","studentEmails":["a@school.test","b@school.test","nobody@school.test"]}`))
	asUser(c, "t1", models.RoleTeacher)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.got.StudentEmails, 3)
	var res dto.CreateBatchResult
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &res))
	assert.Equal(t, 2, res.FoundCount)
	assert.Equal(t, []string{"nobody@school.test"}, res.MissingEmails)
}

func TestListBatches(t *testing.T) {
	svc := &batchServiceMock{list: []models.BatchDetail{{Batch: models.Batch{ID: "b2"}}, {Batch: models.Batch{ID: "b1"}}}}
	h := NewBatchHandler(svc, &gradebookServiceMock{})

	c, w := newGinContext(http.MethodGet, "/api/batches", nil)
	asUser(c, "t1", models.RoleTeacher)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var list dto.BatchList
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list.Batches, 2)
	assert.Equal(t, "b2", list.Batches[0].ID)
}

func TestGradebookStreamsAttachment(t *testing.T) {
	gb := &gradebookServiceMock{file: &dto.GradebookFile{Filename: "period-1-gradebook.csv", ContentType: "text/csv", Body: []byte("Student,Email\n")}}
	h := NewBatchHandler(&batchServiceMock{}, gb)

	c, w := newGinContext(http.MethodGet, "/api/batches/b1/gradebook?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	asUser(c, "t1", models.RoleTeacher)
	h.Gradebook(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b1", gb.gotBatch)
	assert.Equal(t, "csv", gb.gotFormat)
	assert.Equal(t, `attachment; filename="period-1-gradebook.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "Student,Email\n", w.Body.String())
}

func TestGradebookForeignBatch(t *testing.T) {
	gb := &gradebookServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "batch belongs to another teacher")}
	h := NewBatchHandler(&batchServiceMock{}, gb)

	c, w := newGinContext(http.MethodGet, "/api/batches/b1/gradebook", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	asUser(c, "t2", models.RoleTeacher)
	h.Gradebook(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
