package models

import (
	"encoding/json"
	"time"
)

// Audit actions recorded for the assignment lifecycle.
const (
	AuditActionAssignmentCreate     = "ASSIGNMENT_CREATE"
	AuditActionAssignmentDistribute = "ASSIGNMENT_DISTRIBUTE"
	AuditActionAssignmentSubmit     = "ASSIGNMENT_SUBMIT"
	AuditActionBatchCreate          = "BATCH_CREATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	UserID     *string         `db:"user_id" json:"userId,omitempty"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resourceId,omitempty"`
	Payload    json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}
