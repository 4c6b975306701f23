package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
)

func newSubmissionFixture(t *testing.T) (*memStore, *SubmissionService, *recordingActivity, *MetricsService) {
	t.Helper()
	store := newMemStore()
	store.addUser("t1", "Ada", "ada@school.test", models.RoleTeacher)
	store.addUser("s1", "Sam", "sam@school.test", models.RoleStudent)
	store.addBatch("b1", "t1", "s1")
	batch := "b1"
	_, err := memAssignments{store}.Create(context.Background(), &models.Assignment{
		ID: "a1", Title: "Quiz", TeacherID: "t1", BatchID: &batch, Questions: keyed(1, 1, 2, 3),
	})
	require.NoError(t, err)

	activity := &recordingActivity{}
	metrics := NewMetricsService()
	svc := NewSubmissionService(memAssignments{store}, memRecords{store}, metrics, activity, nil, nil)
	return store, svc, activity, metrics
}

func TestSubmitScoresAndCompletesRecord(t *testing.T) {
	store, svc, activity, metrics := newSubmissionFixture(t)

	res, err := svc.Submit(context.Background(), studentActor("s1"), dto.SubmitRequest{
		AssignmentID: "a1",
		Answers:      answers("0", "1", "2", "3"),
	})
	require.NoError(t, err)
	assert.Equal(t, &dto.SubmitResult{AssignmentID: "a1", Score: 75, CorrectAnswers: 3, TotalQuestions: 4}, res)

	rec := store.record("s1", "a1")
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, 75, rec.Score)
	assert.NotNil(t, rec.CompletedAt)
	assert.Equal(t, []string{events.TypeAssignmentSubmitted}, activity.types())
	assert.EqualValues(t, 1, metrics.Snapshot().Submissions)
}

func TestResubmissionOverwritesScore(t *testing.T) {
	store, svc, _, _ := newSubmissionFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, studentActor("s1"), dto.SubmitRequest{AssignmentID: "a1", Answers: answers("0", "0", "0", "0")})
	require.NoError(t, err)
	assert.Equal(t, 0, store.record("s1", "a1").Score)

	res, err := svc.Submit(ctx, studentActor("s1"), dto.SubmitRequest{AssignmentID: "a1", Answers: answers("1", "1", "2", "3")})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 100, store.record("s1", "a1").Score)
	assert.Equal(t, 1, store.recordCount())
}

func TestSubmitWithoutPriorRecordCreatesOne(t *testing.T) {
	store, svc, _, _ := newSubmissionFixture(t)
	store.addUser("s9", "Late", "late@school.test", models.RoleStudent)

	res, err := svc.Submit(context.Background(), studentActor("s9"), dto.SubmitRequest{AssignmentID: "a1", Answers: []json.RawMessage{}})
	require.NoError(t, err)
	assert.Zero(t, res.Score)
	rec := store.record("s9", "a1")
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusCompleted, rec.Status)
}

func TestSubmitGuards(t *testing.T) {
	store, svc, activity, _ := newSubmissionFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, teacherActor("t1"), dto.SubmitRequest{AssignmentID: "a1", Answers: answers("1")})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Submit(ctx, studentActor("s1"), dto.SubmitRequest{AssignmentID: " "})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Submit(ctx, studentActor("s1"), dto.SubmitRequest{AssignmentID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	assert.Equal(t, models.StatusPending, store.record("s1", "a1").Status)
	assert.Empty(t, activity.types())
}
