package dto

import "github.com/tanishq4141/PROJECT-ALPHA/internal/models"

// CreateBatchRequest is the POST /batches/create payload.
type CreateBatchRequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description" validate:"max=2000"`
	StudentEmails []string `json:"studentEmails" validate:"max=500"`
}

// CreateBatchResult reports the persisted batch and any emails that did not match a student.
type CreateBatchResult struct {
	Batch         models.BatchDetail `json:"batch"`
	FoundCount    int                `json:"foundCount"`
	MissingEmails []string           `json:"missingEmails"`
}

// BatchList wraps batch listings as { batches: [...] }.
type BatchList struct {
	Batches []models.BatchDetail `json:"batches"`
}
