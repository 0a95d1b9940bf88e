package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		Inputs: []Entry{
			{Name: "data", Kind: KindTabular, HasHeader: true},
			{Name: "model", Kind: KindFile},
		},
		Outputs: []Entry{
			{Name: "result", Kind: KindTabular, HasHeader: true},
		},
		Params: []Entry{
			{Name: "threshold", Kind: KindPrimitive},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, testSchema().Validate())
	})

	t.Run("duplicate name within namespace", func(t *testing.T) {
		t.Parallel()
		s := Schema{Inputs: []Entry{
			{Name: "data", Kind: KindFile},
			{Name: "data", Kind: KindTabular},
		}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data")
	})

	t.Run("same name across namespaces is rejected", func(t *testing.T) {
		t.Parallel()
		s := Schema{
			Inputs:  []Entry{{Name: "scores", Kind: KindFile}},
			Outputs: []Entry{{Name: "scores", Kind: KindFile}},
		}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scores")
		assert.Contains(t, err.Error(), "input")
		assert.Contains(t, err.Error(), "output")
	})

	t.Run("same name in param and output is rejected", func(t *testing.T) {
		t.Parallel()
		s := Schema{
			Outputs: []Entry{{Name: "result", Kind: KindTabular}},
			Params:  []Entry{{Name: "result", Kind: KindPrimitive}},
		}
		assert.Error(t, s.Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		s := Schema{Params: []Entry{{Name: "", Kind: KindPrimitive}}}
		assert.Error(t, s.Validate())
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		s := Schema{Inputs: []Entry{{Name: "data", Kind: Kind("blob")}}}
		assert.Error(t, s.Validate())
	})
}

func TestSchemaNames(t *testing.T) {
	t.Parallel()

	names := testSchema().Names()
	assert.Equal(t, []string{"data", "model", "result", "threshold"}, names)
}

func TestCheckNames(t *testing.T) {
	t.Parallel()

	schema := testSchema()

	t.Run("exact match", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, CheckNames(schema, []string{"data", "model", "result", "threshold"}))
	})

	t.Run("reports every mismatch, not just the first", func(t *testing.T) {
		t.Parallel()
		mismatch := CheckNames(schema, []string{"data", "modle", "threshold", "extra"})
		require.NotNil(t, mismatch)
		assert.Equal(t, []string{"model", "result"}, mismatch.Missing)
		assert.Equal(t, []string{"extra", "modle"}, mismatch.Unknown)
	})
}
