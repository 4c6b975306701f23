package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

func TestAuditCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionBatchCreate, Resource: "batch"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.JSONEq(t, `{}`, string(entry.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditListByResource(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE resource = $1 AND resource_id = $2")).
		WithArgs("assignment", "a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "payload", "created_at"}).
			AddRow("l1", "t1", models.AuditActionAssignmentCreate, "assignment", "a1", []byte(`{"questions":2}`), time.Now()))

	logs, err := repo.ListByResource(context.Background(), "assignment", "a1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionAssignmentCreate, logs[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
