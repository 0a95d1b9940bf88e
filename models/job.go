package models

import (
	"time"

	"batch-scorer-server/scoring"
)

// ScoringJob represents a batch scoring job record (scoring_jobs table)
type ScoringJob struct {
	ID           int64             `json:"id"`
	ServiceID    int64             `json:"service_id"`
	JobUUID      string            `json:"job_uuid"`
	SubmittedAt  time.Time         `json:"submitted_at"`
	SubmittedBy  string            `json:"submitted_by,omitempty"`
	Request      scoring.Request   `json:"request"`
	Status       string            `json:"status"`
	Outputs      map[string]string `json:"outputs,omitempty"`
	ErrorKind    string            `json:"error_kind,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	DurationMs   int               `json:"duration_ms"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Job status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Error kind constants, mirroring the adapter's error taxonomy on the wire
const (
	ErrKindSchemaMismatch = "schema_mismatch"
	ErrKindDataAccess     = "data_access"
	ErrKindExecution      = "execution"
)

// ScoreResponse represents the response for a scoring job
type ScoreResponse struct {
	Status       string            `json:"status"`
	ServiceID    int64             `json:"service_id"`
	JobID        int64             `json:"job_id"`
	JobUUID      string            `json:"job_uuid"`
	Request      scoring.Request   `json:"request,omitempty"`
	Outputs      map[string]string `json:"outputs,omitempty"`
	ErrorKind    string            `json:"error_kind,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	DurationMs   int               `json:"duration_ms"`
	SubmittedAt  time.Time         `json:"submitted_at"`
}

// JobListItem represents a scoring job in list view
type JobListItem struct {
	ID           int64             `json:"id"`
	ServiceID    int64             `json:"service_id"`
	SubmittedAt  time.Time         `json:"submitted_at"`
	Status       string            `json:"status"`
	Outputs      map[string]string `json:"outputs,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	DurationMs   int               `json:"duration_ms"`
}
