package scoring

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScorer copies the data input to the result output line by line,
// close enough to a real batch scorer for contract tests.
func copyScorer() Func {
	return NewFunc([]string{"data", "model", "result", "threshold"}, func(ctx context.Context, args Args) error {
		if _, err := os.Stat(args["model"].Path); err != nil {
			return err
		}
		in, err := os.Open(args["data"].Path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.Create(args["result"].Path)
		if err != nil {
			return err
		}
		defer out.Close()

		sc := bufio.NewScanner(in)
		for sc.Scan() {
			fmt.Fprintf(out, "%s,scored\n", sc.Text())
		}
		return sc.Err()
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("aligned names publish", func(t *testing.T) {
		t.Parallel()
		reg, err := Register(copyScorer(), testSchema(), []string{"numpy", "pandas"}, "churn-batch")
		require.NoError(t, err)
		assert.Equal(t, StatePublished, reg.State)
		assert.NotEmpty(t, reg.Driver.ID)
		assert.Equal(t, "churn-batch", reg.Driver.ServiceName)
		assert.Equal(t, "churn-batch", reg.Manifest.ServiceName)
		assert.Len(t, reg.Manifest.Entries, 4)
	})

	t.Run("mismatch names every offender", func(t *testing.T) {
		t.Parallel()
		fn := NewFunc([]string{"data", "mdl"}, func(context.Context, Args) error { return nil })
		reg, err := Register(fn, testSchema(), nil, "churn-batch")
		require.Error(t, err)
		assert.Equal(t, StateInvalid, reg.State)

		var mismatch *SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, []string{"model", "result", "threshold"}, mismatch.Missing)
		assert.Equal(t, []string{"mdl"}, mismatch.Unknown)
	})

	t.Run("input and output sharing a name cannot publish", func(t *testing.T) {
		t.Parallel()
		s := Schema{
			Inputs:  []Entry{{Name: "scores", Kind: KindTabular, HasHeader: true}},
			Outputs: []Entry{{Name: "scores", Kind: KindTabular, HasHeader: true}},
		}
		fn := NewFunc([]string{"scores"}, func(context.Context, Args) error { return nil })
		reg, err := Register(fn, s, nil, "overlap-batch")
		require.Error(t, err)
		assert.Equal(t, StateInvalid, reg.State)

		// An overlapping name must never reach execution, where the
		// output destination would alias the input file.
		path := filepath.Join(t.TempDir(), "scores.csv")
		require.NoError(t, os.WriteFile(path, []byte("id,score\n1,0.9\n"), 0644))

		res, err := reg.Invoke(context.Background(), Request{"scores": {Ref: path}}, LocalResolver{})
		assert.ErrorIs(t, err, ErrNotPublished)
		assert.Equal(t, StatusFailed, res.Status)

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "id,score\n1,0.9\n", string(data))
	})

	t.Run("invalid schema", func(t *testing.T) {
		t.Parallel()
		s := Schema{Inputs: []Entry{{Name: "data", Kind: Kind("nope")}}}
		reg, err := Register(copyScorer(), s, nil, "churn-batch")
		require.Error(t, err)
		assert.Equal(t, StateInvalid, reg.State)
	})

	t.Run("registering twice is semantically idempotent", func(t *testing.T) {
		t.Parallel()
		a, err := Register(copyScorer(), testSchema(), []string{"numpy"}, "churn-batch")
		require.NoError(t, err)
		b, err := Register(copyScorer(), testSchema(), []string{"numpy"}, "churn-batch")
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(a.Manifest, b.Manifest))
		assert.Empty(t, cmp.Diff(a.Driver, b.Driver,
			cmpopts.IgnoreFields(DriverDescriptor{}, "ID", "CreatedAt")))
		assert.NotEqual(t, a.Driver.ID, b.Driver.ID)
	})
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	newRequest := func(t *testing.T) (Request, string) {
		t.Helper()
		dir := t.TempDir()
		dataPath := filepath.Join(dir, "data.csv")
		modelPath := filepath.Join(dir, "model.bin")
		resultPath := filepath.Join(dir, "out", "result.csv")
		require.NoError(t, os.WriteFile(dataPath, []byte("id,amount\n1,10\n2,20\n"), 0644))
		require.NoError(t, os.WriteFile(modelPath, []byte("weights"), 0644))
		return Request{
			"data":      {Ref: dataPath},
			"model":     {Ref: modelPath},
			"result":    {Ref: resultPath},
			"threshold": {Value: 0.5},
		}, resultPath
	}

	t.Run("succeeds and populates the result location", func(t *testing.T) {
		t.Parallel()
		reg, err := Register(copyScorer(), testSchema(), nil, "churn-batch")
		require.NoError(t, err)

		req, resultPath := newRequest(t)
		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, res.Status)
		assert.NotEmpty(t, res.JobID)
		assert.Equal(t, resultPath, res.Outputs["result"])

		written, err := os.ReadFile(resultPath)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(written), "1,10,scored"))
	})

	t.Run("missing input fails with DataAccessError and writes nothing", func(t *testing.T) {
		t.Parallel()
		reg, err := Register(copyScorer(), testSchema(), nil, "churn-batch")
		require.NoError(t, err)

		req, resultPath := newRequest(t)
		req["data"] = DataRef{Ref: filepath.Join(t.TempDir(), "does-not-exist.csv")}

		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		require.Error(t, err)
		assert.Equal(t, StatusFailed, res.Status)

		var dae *DataAccessError
		require.True(t, errors.As(err, &dae))
		assert.Equal(t, "data", dae.Param)

		_, statErr := os.Stat(resultPath)
		assert.True(t, os.IsNotExist(statErr), "no output may be written on failure")
	})

	t.Run("function failure surfaces as ExecutionError", func(t *testing.T) {
		t.Parallel()
		fn := NewFunc(testSchema().Names(), func(context.Context, Args) error {
			return errors.New("model incompatible with feature columns")
		})
		reg, err := Register(fn, testSchema(), nil, "churn-batch")
		require.NoError(t, err)

		req, _ := newRequest(t)
		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		require.Error(t, err)
		assert.Equal(t, StatusFailed, res.Status)

		var ee *ExecutionError
		require.True(t, errors.As(err, &ee))
		assert.Contains(t, ee.Error(), "model incompatible with feature columns")
	})

	t.Run("unwritten output is an ExecutionError", func(t *testing.T) {
		t.Parallel()
		fn := NewFunc(testSchema().Names(), func(context.Context, Args) error { return nil })
		reg, err := Register(fn, testSchema(), nil, "churn-batch")
		require.NoError(t, err)

		req, resultPath := newRequest(t)
		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		require.Error(t, err)
		assert.Equal(t, StatusFailed, res.Status)

		var ee *ExecutionError
		require.True(t, errors.As(err, &ee))
		assert.Contains(t, ee.Error(), `output "result" not written`)

		_, statErr := os.Stat(resultPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("unknown and missing request names rejected before execution", func(t *testing.T) {
		t.Parallel()
		ran := false
		fn := NewFunc(testSchema().Names(), func(context.Context, Args) error {
			ran = true
			return nil
		})
		reg, err := Register(fn, testSchema(), nil, "churn-batch")
		require.NoError(t, err)

		req, _ := newRequest(t)
		delete(req, "threshold")
		req["thresold"] = DataRef{Value: 0.5}

		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		require.Error(t, err)
		assert.Equal(t, StatusFailed, res.Status)
		assert.False(t, ran)

		var mismatch *SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, []string{"threshold"}, mismatch.Missing)
		assert.Equal(t, []string{"thresold"}, mismatch.Unknown)
	})

	t.Run("invoke on an invalid registration", func(t *testing.T) {
		t.Parallel()
		fn := NewFunc([]string{"data"}, func(context.Context, Args) error { return nil })
		reg, _ := Register(fn, testSchema(), nil, "churn-batch")
		require.Equal(t, StateInvalid, reg.State)

		req, _ := newRequest(t)
		res, err := reg.Invoke(context.Background(), req, LocalResolver{})
		assert.ErrorIs(t, err, ErrNotPublished)
		assert.Equal(t, StatusFailed, res.Status)
	})

	t.Run("describe-only registration cannot invoke", func(t *testing.T) {
		t.Parallel()
		reg, err := Describe("churn-batch", testSchema(), testSchema().Names(), nil)
		require.NoError(t, err)

		req, _ := newRequest(t)
		_, err = reg.Invoke(context.Background(), req, LocalResolver{})
		assert.ErrorIs(t, err, ErrNoFunction)
	})
}
