package models

import "batch-scorer-server/scoring"

// ExecutionRequest represents a scoring job handed to workers (sent to Redis queue)
type ExecutionRequest struct {
	JobID       int64           `json:"jobId"`
	JobUUID     string          `json:"jobUuid"`
	ServiceID   int64           `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Request     scoring.Request `json:"request"`
}

// ExecutionResult represents the result from a worker (stored in Redis)
type ExecutionResult struct {
	JobID        int64             `json:"jobId"`
	Status       string            `json:"status"`
	Outputs      map[string]string `json:"outputs,omitempty"`
	ErrorKind    string            `json:"errorKind,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	DurationMs   int               `json:"durationMs"`
}
