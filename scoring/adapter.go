package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Func is a user-supplied scoring routine. Params reports the exact set
// of named arguments the routine accepts; Run receives them resolved to
// local paths, inline values and output destinations, and writes its
// results to the declared output paths instead of returning them.
type Func interface {
	Params() []string
	Run(ctx context.Context, args Args) error
}

type funcImpl struct {
	params []string
	run    func(ctx context.Context, args Args) error
}

func (f *funcImpl) Params() []string { return f.params }

func (f *funcImpl) Run(ctx context.Context, args Args) error { return f.run(ctx, args) }

// NewFunc wraps a plain closure as a Func with the given parameter names.
func NewFunc(params []string, run func(ctx context.Context, args Args) error) Func {
	return &funcImpl{params: params, run: run}
}

// State tracks a registration through its lifecycle. A registration
// starts as Draft and moves to Published or Invalid exactly once.
type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
	StateInvalid   State = "invalid"
)

// DriverDescriptor is the generated artifact an external deployment tool
// uses to invoke the registered function in a hosted environment.
type DriverDescriptor struct {
	ID           string    `json:"id"`
	ServiceName  string    `json:"service_name"`
	Entrypoint   string    `json:"entrypoint"`
	Dependencies []string  `json:"dependencies,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ManifestEntry is one declared name in a schema manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Direction string `json:"direction"` // input, output or param
	Kind      Kind   `json:"kind"`
	HasHeader bool   `json:"has_header,omitempty"`
}

// SchemaManifest declares the named inputs, outputs and parameters a
// registered function expects.
type SchemaManifest struct {
	ServiceName string          `json:"service_name"`
	Entries     []ManifestEntry `json:"entries"`
}

// Registration binds a scoring function to its schema and, once
// published, carries the descriptor pair handed to deployment tooling.
type Registration struct {
	ServiceName string
	State       State
	Schema      Schema
	Driver      DriverDescriptor
	Manifest    SchemaManifest

	fn Func
}

// CheckNames cross-checks a function's declared parameter names against
// the union of schema names. It returns nil when they align exactly, or
// a SchemaMismatchError naming every schema name the function does not
// accept (Missing) and every function parameter no schema entry declares
// (Unknown).
func CheckNames(schema Schema, params []string) *SchemaMismatchError {
	declared := make(map[string]bool)
	for _, n := range schema.Names() {
		declared[n] = true
	}
	accepted := make(map[string]bool, len(params))
	for _, p := range params {
		accepted[p] = true
	}

	mismatch := &SchemaMismatchError{}
	for n := range declared {
		if !accepted[n] {
			mismatch.Missing = append(mismatch.Missing, n)
		}
	}
	for p := range accepted {
		if !declared[p] {
			mismatch.Unknown = append(mismatch.Unknown, p)
		}
	}
	if len(mismatch.Missing) == 0 && len(mismatch.Unknown) == 0 {
		return nil
	}
	sort.Strings(mismatch.Missing)
	sort.Strings(mismatch.Unknown)
	return mismatch
}

// Describe validates a schema against a function's declared parameter
// names and, on success, produces a Published registration holding the
// driver descriptor and schema manifest for serviceName. No function is
// bound; the result can describe a function deployed elsewhere. On a
// name mismatch the registration is returned in the Invalid state
// together with the error.
func Describe(serviceName string, schema Schema, funcParams, deps []string) (*Registration, error) {
	reg := &Registration{
		ServiceName: serviceName,
		State:       StateDraft,
		Schema:      schema,
	}

	if err := schema.Validate(); err != nil {
		reg.State = StateInvalid
		return reg, err
	}
	if mismatch := CheckNames(schema, funcParams); mismatch != nil {
		reg.State = StateInvalid
		return reg, mismatch
	}

	reg.Driver = DriverDescriptor{
		ID:           uuid.New().String(),
		ServiceName:  serviceName,
		Entrypoint:   "run",
		Dependencies: append([]string(nil), deps...),
		CreatedAt:    time.Now().UTC(),
	}
	reg.Manifest = buildManifest(serviceName, schema)
	reg.State = StatePublished
	return reg, nil
}

// Register validates fn against schema and produces a Published
// registration with fn bound, ready for Invoke.
func Register(fn Func, schema Schema, deps []string, serviceName string) (*Registration, error) {
	reg, err := Describe(serviceName, schema, fn.Params(), deps)
	if err != nil {
		return reg, err
	}
	reg.fn = fn
	return reg, nil
}

func buildManifest(serviceName string, schema Schema) SchemaManifest {
	m := SchemaManifest{ServiceName: serviceName}
	for _, e := range schema.Inputs {
		m.Entries = append(m.Entries, ManifestEntry{Name: e.Name, Direction: "input", Kind: e.Kind, HasHeader: e.HasHeader})
	}
	for _, e := range schema.Outputs {
		m.Entries = append(m.Entries, ManifestEntry{Name: e.Name, Direction: "output", Kind: e.Kind, HasHeader: e.HasHeader})
	}
	for _, e := range schema.Params {
		m.Entries = append(m.Entries, ManifestEntry{Name: e.Name, Direction: "param", Kind: e.Kind, HasHeader: e.HasHeader})
	}
	return m
}
