package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
)

// ScoringAPI is the slice of the scoring service the HTTP layer needs
type ScoringAPI interface {
	RegisterService(ctx context.Context, req *models.CreateServiceRequest) (*models.ScoringService, error)
	GetService(ctx context.Context, id int64) (*models.ScoringService, error)
	ListServices(ctx context.Context) ([]models.ServiceListItem, error)
	SubmitJob(ctx context.Context, serviceID int64, req scoring.Request, submittedBy string) (*models.ScoringJob, error)
	GetJobResult(ctx context.Context, jobID int64) (*models.ScoringJob, error)
	ListJobs(ctx context.Context, serviceID int64, limit int) ([]models.JobListItem, error)
}

type ServiceHandler struct {
	service ScoringAPI
}

func NewServiceHandler(svc ScoringAPI) *ServiceHandler {
	return &ServiceHandler{service: svc}
}

// RegisterService godoc
// @Summary Register a scoring service
// @Description Register a batch scoring function with its input/output/parameter schema
// @Tags services
// @Accept json
// @Produce json
// @Param service body models.CreateServiceRequest true "Service to register"
// @Success 200 {object} models.ScoringService
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /services [post]
func (h *ServiceHandler) RegisterService(c *fiber.Ctx) error {
	var req models.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validation
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if len(req.FuncParams) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "func_params is required",
		})
	}

	svc, err := h.service.RegisterService(c.Context(), &req)
	if err != nil {
		var mismatch *scoring.SchemaMismatchError
		if errors.As(err, &mismatch) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   mismatch.Error(),
				"missing": mismatch.Missing,
				"unknown": mismatch.Unknown,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(svc)
}

// ListServices godoc
// @Summary List scoring services
// @Description Get a list of all registered scoring services
// @Tags services
// @Produce json
// @Success 200 {array} models.ServiceListItem
// @Router /services [get]
func (h *ServiceHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.service.ListServices(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if services == nil {
		services = []models.ServiceListItem{}
	}

	return c.JSON(services)
}

// GetService godoc
// @Summary Get scoring service details
// @Description Get a service with its schema, driver descriptor and manifest
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} models.ScoringService
// @Failure 404 {object} map[string]string
// @Router /services/{id} [get]
func (h *ServiceHandler) GetService(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service ID",
		})
	}

	svc, err := h.service.GetService(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(svc)
}

// SubmitJob godoc
// @Summary Submit a batch scoring job
// @Description Score declared inputs against a registered service; results are polled separately
// @Tags services
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param request body models.ScoreRequest true "Named inputs, outputs and parameters"
// @Success 200 {object} models.ScoreResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /services/{id}/score [post]
func (h *ServiceHandler) SubmitJob(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service ID",
		})
	}

	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		req.Request = scoring.Request{}
	}

	// Get client IP for submitted_by
	submittedBy := c.IP()
	if submittedBy == "" {
		submittedBy = "anonymous"
	}

	job, err := h.service.SubmitJob(c.Context(), id, req.Request, submittedBy)
	if err != nil {
		var mismatch *scoring.SchemaMismatchError
		if errors.As(err, &mismatch) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   mismatch.Error(),
				"missing": mismatch.Missing,
				"unknown": mismatch.Unknown,
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Return initial response with job ID
	return c.JSON(fiber.Map{
		"status":       job.Status,
		"service_id":   job.ServiceID,
		"job_id":       job.ID,
		"job_uuid":     job.JobUUID,
		"request":      job.Request,
		"submitted_at": job.SubmittedAt,
	})
}

// GetJobResult godoc
// @Summary Get scoring job result
// @Description Poll for the result of a batch scoring job
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Param jobId path int true "Job ID"
// @Success 200 {object} models.ScoreResponse
// @Failure 404 {object} map[string]string
// @Router /services/{id}/jobs/{jobId} [get]
func (h *ServiceHandler) GetJobResult(c *fiber.Ctx) error {
	jobID, err := strconv.ParseInt(c.Params("jobId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	job, err := h.service.GetJobResult(c.Context(), jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := models.ScoreResponse{
		Status:      job.Status,
		ServiceID:   job.ServiceID,
		JobID:       job.ID,
		JobUUID:     job.JobUUID,
		Request:     job.Request,
		DurationMs:  job.DurationMs,
		SubmittedAt: job.SubmittedAt,
	}

	if job.Status == models.StatusSucceeded {
		response.Outputs = job.Outputs
	} else if job.Status == models.StatusFailed {
		response.ErrorKind = job.ErrorKind
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}

// ListJobs godoc
// @Summary List scoring jobs
// @Description Get job history for a scoring service
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Param limit query int false "Number of results to return" default(20)
// @Success 200 {array} models.JobListItem
// @Router /services/{id}/jobs [get]
func (h *ServiceHandler) ListJobs(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service ID",
		})
	}

	limit := c.QueryInt("limit", 20)

	jobs, err := h.service.ListJobs(c.Context(), id, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if jobs == nil {
		jobs = []models.JobListItem{}
	}

	return c.JSON(jobs)
}
