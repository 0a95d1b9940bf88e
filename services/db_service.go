package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"

	_ "github.com/lib/pq"
)

type DBService struct {
	db *sql.DB
}

func NewDBService(host string, port int, user, password, dbname string) (*DBService, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DBService{db: db}, nil
}

func (s *DBService) Close() error {
	return s.db.Close()
}

// InitSchema creates tables if they don't exist
func (s *DBService) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scoring_services (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT NOT NULL,
		func_params JSONB NOT NULL,
		driver_key TEXT NOT NULL,
		manifest JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS schema_entries (
		id BIGSERIAL PRIMARY KEY,
		service_id BIGINT NOT NULL REFERENCES scoring_services(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		direction VARCHAR(10) NOT NULL,
		kind VARCHAR(20) NOT NULL,
		has_header BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS scoring_jobs (
		id BIGSERIAL PRIMARY KEY,
		service_id BIGINT NOT NULL REFERENCES scoring_services(id) ON DELETE CASCADE,
		job_uuid VARCHAR(64) NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		submitted_by VARCHAR(255),
		request JSONB NOT NULL,
		status VARCHAR(20) NOT NULL,
		outputs JSONB,
		error_kind VARCHAR(30),
		error_message TEXT,
		duration_ms INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_scoring_jobs_service_id ON scoring_jobs(service_id);
	CREATE INDEX IF NOT EXISTS idx_scoring_jobs_submitted_at ON scoring_jobs(submitted_at DESC);

	CREATE TABLE IF NOT EXISTS scheduled_runs (
		id BIGSERIAL PRIMARY KEY,
		service_id BIGINT NOT NULL REFERENCES scoring_services(id) ON DELETE CASCADE,
		scheduled_at TIMESTAMPTZ NOT NULL,
		request JSONB NOT NULL,
		executed BOOLEAN NOT NULL DEFAULT FALSE,
		executed_at TIMESTAMPTZ,
		status VARCHAR(20),
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_scheduled_runs_due ON scheduled_runs(scheduled_at) WHERE executed = FALSE;
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// CreateService inserts a new scoring service and its schema entries
func (s *DBService) CreateService(ctx context.Context, svc *models.ScoringService) (*models.ScoringService, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	funcParamsJSON, _ := json.Marshal(svc.FuncParams)
	manifestJSON, _ := json.Marshal(svc.Manifest)

	var id int64
	var createdAt, updatedAt time.Time
	err = tx.QueryRowContext(ctx, `
		INSERT INTO scoring_services (name, description, func_params, driver_key, manifest)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, svc.Name, svc.Description, funcParamsJSON, svc.DriverKey, manifestJSON).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	svc.ID = id
	svc.CreatedAt = createdAt
	svc.UpdatedAt = updatedAt

	if err := insertEntries(ctx, tx, id, "input", svc.Schema.Inputs); err != nil {
		return nil, err
	}
	if err := insertEntries(ctx, tx, id, "output", svc.Schema.Outputs); err != nil {
		return nil, err
	}
	if err := insertEntries(ctx, tx, id, "param", svc.Schema.Params); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return svc, nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, serviceID int64, direction string, entries []scoring.Entry) error {
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schema_entries (service_id, name, direction, kind, has_header)
			VALUES ($1, $2, $3, $4, $5)
		`, serviceID, e.Name, direction, string(e.Kind), e.HasHeader)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetService retrieves a scoring service by ID with its schema entries
func (s *DBService) GetService(ctx context.Context, id int64) (*models.ScoringService, error) {
	return s.getService(ctx, `WHERE id = $1`, id)
}

// GetServiceByName retrieves a scoring service by its unique name
func (s *DBService) GetServiceByName(ctx context.Context, name string) (*models.ScoringService, error) {
	return s.getService(ctx, `WHERE name = $1`, name)
}

func (s *DBService) getService(ctx context.Context, where string, arg interface{}) (*models.ScoringService, error) {
	svc := &models.ScoringService{}
	var funcParamsJSON, manifestJSON []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, func_params, driver_key, manifest, created_at, updated_at
		FROM scoring_services `+where,
		arg).Scan(&svc.ID, &svc.Name, &svc.Description, &funcParamsJSON, &svc.DriverKey, &manifestJSON, &svc.CreatedAt, &svc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if funcParamsJSON != nil {
		json.Unmarshal(funcParamsJSON, &svc.FuncParams)
	}
	if manifestJSON != nil {
		json.Unmarshal(manifestJSON, &svc.Manifest)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, direction, kind, has_header
		FROM schema_entries WHERE service_id = $1 ORDER BY id
	`, svc.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry scoring.Entry
		var direction, kind string
		if err := rows.Scan(&entry.Name, &direction, &kind, &entry.HasHeader); err != nil {
			return nil, err
		}
		entry.Kind = scoring.Kind(kind)
		switch direction {
		case "input":
			svc.Schema.Inputs = append(svc.Schema.Inputs, entry)
		case "output":
			svc.Schema.Outputs = append(svc.Schema.Outputs, entry)
		case "param":
			svc.Schema.Params = append(svc.Schema.Params, entry)
		}
	}

	return svc, rows.Err()
}

// UpdateDriverKey updates the driver artifact key for a service
func (s *DBService) UpdateDriverKey(ctx context.Context, id int64, driverKey string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scoring_services SET driver_key = $2, updated_at = now() WHERE id = $1
	`, id, driverKey)
	return err
}

// DeleteService removes a service record (cascades to schema entries/jobs)
func (s *DBService) DeleteService(ctx context.Context, id int64) (*models.ScoringService, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM scoring_services WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

// ListServices returns all scoring services (without schema detail)
func (s *DBService) ListServices(ctx context.Context) ([]models.ServiceListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at
		FROM scoring_services ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ServiceListItem
	for rows.Next() {
		var item models.ServiceListItem
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CreateJob creates a new scoring job record
func (s *DBService) CreateJob(ctx context.Context, job *models.ScoringJob) (*models.ScoringJob, error) {
	requestJSON, _ := json.Marshal(job.Request)

	var id int64
	var submittedAt, createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO scoring_jobs (service_id, job_uuid, submitted_by, request, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, submitted_at, created_at
	`, job.ServiceID, job.JobUUID, job.SubmittedBy, requestJSON, job.Status).Scan(&id, &submittedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	job.ID = id
	job.SubmittedAt = submittedAt
	job.CreatedAt = createdAt

	return job, nil
}

// UpdateJobResult updates the job with its execution result
func (s *DBService) UpdateJobResult(ctx context.Context, id int64, status string, outputs map[string]string, errorKind, errorMessage string, durationMs int) error {
	outputsJSON, _ := json.Marshal(outputs)

	_, err := s.db.ExecContext(ctx, `
		UPDATE scoring_jobs
		SET status = $2, outputs = $3, error_kind = $4, error_message = $5, duration_ms = $6
		WHERE id = $1
	`, id, status, outputsJSON, errorKind, errorMessage, durationMs)

	return err
}

// GetJob retrieves a scoring job by ID
func (s *DBService) GetJob(ctx context.Context, id int64) (*models.ScoringJob, error) {
	job := &models.ScoringJob{}
	var requestJSON, outputsJSON []byte
	var errorKind, errorMessage, submittedBy sql.NullString
	var durationMs sql.NullInt32

	err := s.db.QueryRowContext(ctx, `
		SELECT id, service_id, job_uuid, submitted_at, submitted_by, request, status, outputs, error_kind, error_message, duration_ms, created_at
		FROM scoring_jobs WHERE id = $1
	`, id).Scan(&job.ID, &job.ServiceID, &job.JobUUID, &job.SubmittedAt, &submittedBy, &requestJSON, &job.Status, &outputsJSON, &errorKind, &errorMessage, &durationMs, &job.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if requestJSON != nil {
		json.Unmarshal(requestJSON, &job.Request)
	}
	if outputsJSON != nil {
		json.Unmarshal(outputsJSON, &job.Outputs)
	}
	if errorKind.Valid {
		job.ErrorKind = errorKind.String
	}
	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if submittedBy.Valid {
		job.SubmittedBy = submittedBy.String
	}
	if durationMs.Valid {
		job.DurationMs = int(durationMs.Int32)
	}

	return job, nil
}

// ListJobs returns scoring jobs for a service
func (s *DBService) ListJobs(ctx context.Context, serviceID int64, limit int) ([]models.JobListItem, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, service_id, submitted_at, status, outputs, error_message, duration_ms
		FROM scoring_jobs
		WHERE service_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`, serviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.JobListItem
	for rows.Next() {
		var job models.JobListItem
		var outputsJSON []byte
		var errorMessage sql.NullString
		var durationMs sql.NullInt32

		err := rows.Scan(&job.ID, &job.ServiceID, &job.SubmittedAt, &job.Status, &outputsJSON, &errorMessage, &durationMs)
		if err != nil {
			return nil, err
		}

		if outputsJSON != nil {
			json.Unmarshal(outputsJSON, &job.Outputs)
		}
		if errorMessage.Valid {
			job.ErrorMessage = errorMessage.String
		}
		if durationMs.Valid {
			job.DurationMs = int(durationMs.Int32)
		}

		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}
