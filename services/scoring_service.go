package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
)

// driverArtifact is the descriptor pair persisted for external
// deployment tooling.
type driverArtifact struct {
	Driver   scoring.DriverDescriptor `json:"driver"`
	Manifest scoring.SchemaManifest   `json:"manifest"`
}

// ServiceStore is the persistence slice the orchestrator needs
type ServiceStore interface {
	CreateService(ctx context.Context, svc *models.ScoringService) (*models.ScoringService, error)
	UpdateDriverKey(ctx context.Context, id int64, driverKey string) error
	DeleteService(ctx context.Context, id int64) (*models.ScoringService, error)
	GetService(ctx context.Context, id int64) (*models.ScoringService, error)
	ListServices(ctx context.Context) ([]models.ServiceListItem, error)
	CreateJob(ctx context.Context, job *models.ScoringJob) (*models.ScoringJob, error)
	UpdateJobResult(ctx context.Context, id int64, status string, outputs map[string]string, errorKind, errorMessage string, durationMs int) error
	GetJob(ctx context.Context, id int64) (*models.ScoringJob, error)
	ListJobs(ctx context.Context, serviceID int64, limit int) ([]models.JobListItem, error)
}

// JobQueue is the queue and telemetry slice the orchestrator needs
type JobQueue interface {
	PushJob(ctx context.Context, req *models.ExecutionRequest) error
	GetResult(ctx context.Context, jobID int64) (*models.ExecutionResult, error)
	PublishEvent(ctx context.Context, event *models.TelemetryEvent) error
}

type ScoringService struct {
	db    ServiceStore
	blobs BlobStore
	queue JobQueue
}

func NewScoringService(db ServiceStore, blobs BlobStore, queue JobQueue) *ScoringService {
	return &ScoringService{
		db:    db,
		blobs: blobs,
		queue: queue,
	}
}

// RegisterService validates the declared function parameters against
// the schema, generates the driver descriptor and schema manifest, and
// persists the registration. A name mismatch surfaces as a
// *scoring.SchemaMismatchError before anything is stored.
func (s *ScoringService) RegisterService(ctx context.Context, req *models.CreateServiceRequest) (*models.ScoringService, error) {
	reg, err := scoring.Describe(req.Name, req.Schema, req.FuncParams, req.Dependencies)
	if err != nil {
		return nil, err
	}

	svc := &models.ScoringService{
		Name:        req.Name,
		Description: req.Description,
		FuncParams:  req.FuncParams,
		Schema:      req.Schema,
		Manifest:    &reg.Manifest,
	}

	// Create service in DB first to get ID
	svc.DriverKey = "temp" // Will be updated after we have the ID
	created, err := s.db.CreateService(ctx, svc)
	if err != nil {
		return nil, err
	}

	// Generate storage key and save the descriptor pair
	driverKey := GenerateDriverKey(created.ID)
	artifact, err := json.Marshal(driverArtifact{Driver: reg.Driver, Manifest: reg.Manifest})
	if err != nil {
		return nil, err
	}
	if err := s.blobs.Save(ctx, driverKey, artifact); err != nil {
		s.removeHalfRegistered(ctx, created.ID)
		return nil, err
	}

	if err := s.db.UpdateDriverKey(ctx, created.ID, driverKey); err != nil {
		s.removeHalfRegistered(ctx, created.ID)
		return nil, err
	}
	created.DriverKey = driverKey
	created.Driver = &reg.Driver

	return created, nil
}

// removeHalfRegistered drops a service row whose driver artifact never
// made it to storage; such a row would fail every later GetService.
func (s *ScoringService) removeHalfRegistered(ctx context.Context, id int64) {
	if _, err := s.db.DeleteService(ctx, id); err != nil {
		log.Printf("registration rollback: failed to delete service %d: %v", id, err)
	}
}

// GetService retrieves a service by ID, with its driver descriptor
// loaded from storage
func (s *ScoringService) GetService(ctx context.Context, id int64) (*models.ScoringService, error) {
	svc, err := s.db.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("scoring service not found: %d", id)
	}

	data, err := s.blobs.Load(ctx, svc.DriverKey)
	if err != nil {
		return nil, err
	}
	var artifact driverArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, err
	}
	svc.Driver = &artifact.Driver

	return svc, nil
}

// ListServices returns all registered scoring services
func (s *ScoringService) ListServices(ctx context.Context) ([]models.ServiceListItem, error) {
	return s.db.ListServices(ctx)
}

// SubmitJob validates the request against the stored schema, records a
// pending job and hands it to the external compute over the queue. The
// job is fire-and-forget; callers poll GetJobResult.
func (s *ScoringService) SubmitJob(ctx context.Context, serviceID int64, req scoring.Request, submittedBy string) (*models.ScoringJob, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	// Unknown or missing names are rejected before anything is queued
	if mismatch := scoring.ValidateRequest(svc.Schema, req); mismatch != nil {
		return nil, mismatch
	}

	job := &models.ScoringJob{
		ServiceID:   serviceID,
		JobUUID:     uuid.New().String(),
		Request:     req,
		SubmittedBy: submittedBy,
		Status:      models.StatusPending,
	}

	created, err := s.db.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	execReq := &models.ExecutionRequest{
		JobID:       created.ID,
		JobUUID:     created.JobUUID,
		ServiceID:   serviceID,
		ServiceName: svc.Name,
		Request:     req,
	}

	if err := s.queue.PushJob(ctx, execReq); err != nil {
		return nil, err
	}

	return created, nil
}

// GetJob retrieves a scoring job by ID
func (s *ScoringService) GetJob(ctx context.Context, id int64) (*models.ScoringJob, error) {
	return s.db.GetJob(ctx, id)
}

// GetJobResult polls Redis for the worker's result, updates the DB and
// emits a telemetry event once the job reaches a terminal state.
func (s *ScoringService) GetJobResult(ctx context.Context, jobID int64) (*models.ScoringJob, error) {
	job, err := s.db.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("scoring job not found: %d", jobID)
	}

	// If already completed, return from DB
	if job.Status != models.StatusPending && job.Status != models.StatusRunning {
		return job, nil
	}

	result, err := s.queue.GetResult(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if result != nil {
		err = s.db.UpdateJobResult(ctx, jobID, result.Status, result.Outputs, result.ErrorKind, result.ErrorMessage, result.DurationMs)
		if err != nil {
			return nil, err
		}

		updated, err := s.db.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		s.emitJobEvent(ctx, updated)
		return updated, nil
	}

	// Still pending
	return job, nil
}

// ListJobs returns scoring jobs for a service
func (s *ScoringService) ListJobs(ctx context.Context, serviceID int64, limit int) ([]models.JobListItem, error) {
	return s.db.ListJobs(ctx, serviceID, limit)
}

func (s *ScoringService) emitJobEvent(ctx context.Context, job *models.ScoringJob) {
	if job == nil {
		return
	}

	outcome := models.OutcomeSucceeded
	message := ""
	if job.Status != models.StatusSucceeded {
		outcome = models.OutcomeFailed
		message = job.ErrorMessage
	}

	serviceName := fmt.Sprintf("service:%d", job.ServiceID)
	if svc, err := s.db.GetService(ctx, job.ServiceID); err == nil && svc != nil {
		serviceName = svc.Name
	}

	event := &models.TelemetryEvent{
		Service:   serviceName,
		JobUUID:   job.JobUUID,
		Timestamp: time.Now().UTC(),
		Outcome:   outcome,
		Message:   message,
	}
	if err := s.queue.PublishEvent(ctx, event); err != nil {
		log.Printf("telemetry: failed to publish event for job %d: %v", job.ID, err)
	}
}
