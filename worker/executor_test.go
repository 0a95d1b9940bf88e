package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
	"batch-scorer-server/services"
)

func testBlobs(t *testing.T) services.BlobStore {
	t.Helper()
	store, err := services.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registerBuiltins(registry))
	return registry
}

func linearRequest(t *testing.T) (scoring.Request, string) {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	modelPath := filepath.Join(dir, "model.json")
	resultPath := filepath.Join(dir, "result.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("age,income\n30,1000\n60,200\n"), 0644))
	require.NoError(t, os.WriteFile(modelPath, []byte(`{"age":1.0,"income":0.01}`), 0644))
	return scoring.Request{
		"data":      {Ref: dataPath},
		"model":     {Ref: modelPath},
		"result":    {Ref: resultPath},
		"threshold": {Value: 45.0},
	}, resultPath
}

func TestRunJob(t *testing.T) {
	t.Parallel()

	t.Run("linear scorer labels rows and writes the result", func(t *testing.T) {
		t.Parallel()
		req, resultPath := linearRequest(t)
		result := RunJob(context.Background(), testRegistry(t), testBlobs(t), &models.ExecutionRequest{
			JobID:       1,
			JobUUID:     "u-1",
			ServiceName: "linear-batch",
			Request:     req,
		})

		require.Equal(t, models.StatusSucceeded, result.Status, result.ErrorMessage)
		assert.Equal(t, resultPath, result.Outputs["result"])

		written, err := os.ReadFile(resultPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(written)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "age,income,score,label", lines[0])
		// 30 + 10 = 40 < 45; 60 + 2 = 62 >= 45
		assert.True(t, strings.HasSuffix(lines[1], "negative"))
		assert.True(t, strings.HasSuffix(lines[2], "positive"))
	})

	t.Run("unknown service fails without retry", func(t *testing.T) {
		t.Parallel()
		req, _ := linearRequest(t)
		result := RunJob(context.Background(), testRegistry(t), testBlobs(t), &models.ExecutionRequest{
			JobID:       2,
			ServiceName: "nonexistent",
			Request:     req,
		})

		assert.Equal(t, models.StatusFailed, result.Status)
		assert.Equal(t, models.ErrKindExecution, result.ErrorKind)
		assert.Contains(t, result.ErrorMessage, "nonexistent")
	})

	t.Run("unreadable input maps to the data access kind", func(t *testing.T) {
		t.Parallel()
		req, resultPath := linearRequest(t)
		req["data"] = scoring.DataRef{Ref: filepath.Join(t.TempDir(), "gone.csv")}

		result := RunJob(context.Background(), testRegistry(t), testBlobs(t), &models.ExecutionRequest{
			JobID:       3,
			ServiceName: "linear-batch",
			Request:     req,
		})

		assert.Equal(t, models.StatusFailed, result.Status)
		assert.Equal(t, models.ErrKindDataAccess, result.ErrorKind)

		_, err := os.Stat(resultPath)
		assert.True(t, os.IsNotExist(err), "failed jobs must not write outputs")
	})

	t.Run("bad model artifact maps to the execution kind", func(t *testing.T) {
		t.Parallel()
		req, _ := linearRequest(t)
		badModel := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(badModel, []byte("not json"), 0644))
		req["model"] = scoring.DataRef{Ref: badModel}

		result := RunJob(context.Background(), testRegistry(t), testBlobs(t), &models.ExecutionRequest{
			JobID:       4,
			ServiceName: "linear-batch",
			Request:     req,
		})

		assert.Equal(t, models.StatusFailed, result.Status)
		assert.Equal(t, models.ErrKindExecution, result.ErrorKind)
		assert.Contains(t, result.ErrorMessage, "weight map")
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicate names", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		require.NoError(t, registerBuiltins(registry))
		err := registerBuiltins(registry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("rejects unpublished registrations", func(t *testing.T) {
		t.Parallel()
		fn := scoring.NewFunc([]string{"wrong"}, func(context.Context, scoring.Args) error { return nil })
		reg, _ := scoring.Register(fn, linearSchema(), nil, "broken")
		require.Equal(t, scoring.StateInvalid, reg.State)

		registry := NewRegistry()
		assert.Error(t, registry.Add(reg))
	})
}
