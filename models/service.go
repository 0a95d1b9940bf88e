package models

import (
	"time"

	"batch-scorer-server/scoring"
)

// ScoringService represents a registered batch scoring service
type ScoringService struct {
	ID          int64                     `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	FuncParams  []string                  `json:"func_params"`
	Schema      scoring.Schema            `json:"schema"`
	DriverKey   string                    `json:"driver_key,omitempty"`
	Driver      *scoring.DriverDescriptor `json:"driver,omitempty"`
	Manifest    *scoring.SchemaManifest   `json:"manifest,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// ServiceListItem represents a scoring service in list view (without schema detail)
type ServiceListItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateServiceRequest represents the request body for registering a scoring service
type CreateServiceRequest struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	FuncParams   []string       `json:"func_params"`
	Schema       scoring.Schema `json:"schema"`
	Dependencies []string       `json:"dependencies"`
}

// ScoreRequest represents the request body for submitting a scoring job
type ScoreRequest struct {
	Request scoring.Request `json:"request"`
}
