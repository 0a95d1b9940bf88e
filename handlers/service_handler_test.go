package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
)

// fakeScoringAPI backs the handler without Postgres or Redis.
type fakeScoringAPI struct {
	services map[int64]*models.ScoringService
	jobs     map[int64]*models.ScoringJob
	nextID   int64
}

func newFakeAPI() *fakeScoringAPI {
	return &fakeScoringAPI{
		services: make(map[int64]*models.ScoringService),
		jobs:     make(map[int64]*models.ScoringJob),
	}
}

func (f *fakeScoringAPI) RegisterService(ctx context.Context, req *models.CreateServiceRequest) (*models.ScoringService, error) {
	reg, err := scoring.Describe(req.Name, req.Schema, req.FuncParams, req.Dependencies)
	if err != nil {
		return nil, err
	}
	f.nextID++
	svc := &models.ScoringService{
		ID:          f.nextID,
		Name:        req.Name,
		Description: req.Description,
		FuncParams:  req.FuncParams,
		Schema:      req.Schema,
		Driver:      &reg.Driver,
		Manifest:    &reg.Manifest,
		CreatedAt:   time.Now().UTC(),
	}
	f.services[svc.ID] = svc
	return svc, nil
}

func (f *fakeScoringAPI) GetService(ctx context.Context, id int64) (*models.ScoringService, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, fmt.Errorf("scoring service not found: %d", id)
	}
	return svc, nil
}

func (f *fakeScoringAPI) ListServices(ctx context.Context) ([]models.ServiceListItem, error) {
	var items []models.ServiceListItem
	for _, svc := range f.services {
		items = append(items, models.ServiceListItem{ID: svc.ID, Name: svc.Name})
	}
	return items, nil
}

func (f *fakeScoringAPI) SubmitJob(ctx context.Context, serviceID int64, req scoring.Request, submittedBy string) (*models.ScoringJob, error) {
	svc, err := f.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if mismatch := scoring.ValidateRequest(svc.Schema, req); mismatch != nil {
		return nil, mismatch
	}
	f.nextID++
	job := &models.ScoringJob{
		ID:          f.nextID,
		ServiceID:   serviceID,
		JobUUID:     fmt.Sprintf("uuid-%d", f.nextID),
		Request:     req,
		SubmittedBy: submittedBy,
		Status:      models.StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeScoringAPI) GetJobResult(ctx context.Context, jobID int64) (*models.ScoringJob, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("scoring job not found: %d", jobID)
	}
	return job, nil
}

func (f *fakeScoringAPI) ListJobs(ctx context.Context, serviceID int64, limit int) ([]models.JobListItem, error) {
	var items []models.JobListItem
	for _, job := range f.jobs {
		if job.ServiceID == serviceID {
			items = append(items, models.JobListItem{ID: job.ID, ServiceID: serviceID, Status: job.Status})
		}
	}
	return items, nil
}

func newTestApp(api ScoringAPI) *fiber.App {
	app := fiber.New()
	h := NewServiceHandler(api)
	grp := app.Group("/api")
	grp.Post("/services", h.RegisterService)
	grp.Get("/services", h.ListServices)
	grp.Get("/services/:id", h.GetService)
	grp.Post("/services/:id/score", h.SubmitJob)
	grp.Get("/services/:id/jobs", h.ListJobs)
	grp.Get("/services/:id/jobs/:jobId", h.GetJobResult)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return resp.StatusCode, decoded
}

func validCreateRequest() models.CreateServiceRequest {
	return models.CreateServiceRequest{
		Name:        "churn-batch",
		Description: "batch churn scoring",
		FuncParams:  []string{"data", "model", "result", "threshold"},
		Schema: scoring.Schema{
			Inputs: []scoring.Entry{
				{Name: "data", Kind: scoring.KindTabular, HasHeader: true},
				{Name: "model", Kind: scoring.KindFile},
			},
			Outputs: []scoring.Entry{
				{Name: "result", Kind: scoring.KindTabular, HasHeader: true},
			},
			Params: []scoring.Entry{
				{Name: "threshold", Kind: scoring.KindPrimitive},
			},
		},
	}
}

func TestRegisterServiceEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("registers and returns descriptor pair", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		status, body := postJSON(t, app, "/api/services", validCreateRequest())
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "churn-batch", body["name"])
		require.NotNil(t, body["driver"])
		require.NotNil(t, body["manifest"])
	})

	t.Run("missing name is a 400", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		req := validCreateRequest()
		req.Name = ""
		status, body := postJSON(t, app, "/api/services", req)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body["error"], "name is required")
	})

	t.Run("schema mismatch is a 422 naming every offender", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		req := validCreateRequest()
		req.FuncParams = []string{"data", "mdl", "extra"}
		status, body := postJSON(t, app, "/api/services", req)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.ElementsMatch(t, []interface{}{"model", "result", "threshold"}, body["missing"])
		assert.ElementsMatch(t, []interface{}{"extra", "mdl"}, body["unknown"])
	})
}

func TestSubmitJobEndpoint(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T, app *fiber.App) int64 {
		t.Helper()
		status, body := postJSON(t, app, "/api/services", validCreateRequest())
		require.Equal(t, fiber.StatusOK, status)
		return int64(body["id"].(float64))
	}

	fullRequest := func() models.ScoreRequest {
		return models.ScoreRequest{Request: scoring.Request{
			"data":      {Ref: "/data/in.csv"},
			"model":     {Ref: "s3://models/churn/model.json"},
			"result":    {Ref: "/data/out.csv"},
			"threshold": {Value: 0.5},
		}}
	}

	t.Run("accepts a well-formed request", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		id := register(t, app)

		status, body := postJSON(t, app, fmt.Sprintf("/api/services/%d/score", id), fullRequest())
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, models.StatusPending, body["status"])
		assert.NotEmpty(t, body["job_uuid"])
	})

	t.Run("rejects unknown and missing names with a 422", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		id := register(t, app)

		req := fullRequest()
		delete(req.Request, "model")
		req.Request["mdoel"] = scoring.DataRef{Ref: "/x"}

		status, body := postJSON(t, app, fmt.Sprintf("/api/services/%d/score", id), req)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.ElementsMatch(t, []interface{}{"model"}, body["missing"])
		assert.ElementsMatch(t, []interface{}{"mdoel"}, body["unknown"])
	})

	t.Run("unknown service is a 404", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(newFakeAPI())
		status, _ := postJSON(t, app, "/api/services/99/score", fullRequest())
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestGetJobResultEndpoint(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	app := newTestApp(api)

	status, body := postJSON(t, app, "/api/services", validCreateRequest())
	require.Equal(t, fiber.StatusOK, status)
	serviceID := int64(body["id"].(float64))

	job, err := api.SubmitJob(context.Background(), serviceID, scoring.Request{
		"data":      {Ref: "/data/in.csv"},
		"model":     {Ref: "/data/model.json"},
		"result":    {Ref: "/data/out.csv"},
		"threshold": {Value: 0.5},
	}, "test")
	require.NoError(t, err)

	job.Status = models.StatusSucceeded
	job.Outputs = map[string]string{"result": "/data/out.csv"}

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/services/%d/jobs/%d", serviceID, job.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded models.ScoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, models.StatusSucceeded, decoded.Status)
	assert.Equal(t, "/data/out.csv", decoded.Outputs["result"])
}
