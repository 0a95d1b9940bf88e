package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
	"batch-scorer-server/services"
)

// RunJob executes one queued scoring job against the worker's registry.
// The scoring adapter does the heavy lifting; this maps its outcome and
// error taxonomy onto the wire result the server polls for.
func RunJob(ctx context.Context, registry *Registry, blobs services.BlobStore, req *models.ExecutionRequest) *models.ExecutionResult {
	result := &models.ExecutionResult{JobID: req.JobID}

	reg, ok := registry.Get(req.ServiceName)
	if !ok {
		result.Status = models.StatusFailed
		result.ErrorKind = models.ErrKindExecution
		result.ErrorMessage = fmt.Sprintf("no scoring function registered for service %q", req.ServiceName)
		return result
	}

	workDir := filepath.Join(os.TempDir(), "scoregate-worker", uuid.New().String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		result.Status = models.StatusFailed
		result.ErrorKind = models.ErrKindExecution
		result.ErrorMessage = fmt.Sprintf("failed to create work directory: %v", err)
		return result
	}
	defer os.RemoveAll(workDir)

	resolver := services.StoreResolver{Blobs: blobs, WorkDir: workDir}

	startTime := time.Now()
	res, err := reg.Invoke(ctx, req.Request, resolver)
	result.DurationMs = int(time.Since(startTime).Milliseconds())

	if err != nil {
		result.Status = models.StatusFailed
		result.ErrorKind = errorKind(err)
		result.ErrorMessage = err.Error()
		return result
	}

	result.Status = models.StatusSucceeded
	result.Outputs = res.Outputs
	return result
}

func errorKind(err error) string {
	var mismatch *scoring.SchemaMismatchError
	var dataErr *scoring.DataAccessError
	switch {
	case errors.As(err, &mismatch):
		return models.ErrKindSchemaMismatch
	case errors.As(err, &dataErr):
		return models.ErrKindDataAccess
	default:
		return models.ErrKindExecution
	}
}
