package models

import "time"

// Telemetry outcome constants
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// TelemetryEvent is a structured success/failure event forwarded to the
// external telemetry collector when a scoring job reaches a terminal state
type TelemetryEvent struct {
	Service   string    `json:"service"`
	JobUUID   string    `json:"job_uuid"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message,omitempty"`
}
