package models

import (
	"time"

	"batch-scorer-server/scoring"
)

// ScheduledRun represents a one-time scheduled scoring run for a service
type ScheduledRun struct {
	ID           int64           `json:"id"`
	ServiceID    int64           `json:"service_id"`
	ScheduledAt  time.Time       `json:"scheduled_at"`
	Request      scoring.Request `json:"request"`
	Executed     bool            `json:"executed"`
	ExecutedAt   *time.Time      `json:"executed_at,omitempty"`
	Status       string          `json:"status,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateScheduleRequest is used to register a new scheduled run
type CreateScheduleRequest struct {
	ScheduledAt time.Time       `json:"scheduled_at"`
	Request     scoring.Request `json:"request"`
}
