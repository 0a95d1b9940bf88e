package scoring

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Status of one invocation. The adapter observes Submitted and the
// terminal states; Running belongs to the external executor.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Arg is one resolved argument handed to a scoring function: a local
// path for dataset and file inputs and for output destinations, or an
// inline value for primitives.
type Arg struct {
	Entry Entry
	Path  string
	Value interface{}
}

// Args maps declared names to resolved arguments.
type Args map[string]Arg

// Result records the outcome of a single invocation. Outputs maps each
// declared output name to the destination reference it was written to.
type Result struct {
	JobID   string            `json:"job_id"`
	Status  Status            `json:"status"`
	Outputs map[string]string `json:"outputs,omitempty"`
	Err     error             `json:"-"`
}

// Invoke resolves req against the registration's schema, runs the bound
// function and publishes its outputs. Outputs are staged in a scratch
// directory and only copied to their destinations after the function
// returns cleanly, so a failed invocation writes nothing. Invoke blocks
// until the function returns; it performs no retries and enforces no
// timeout beyond ctx.
func (r *Registration) Invoke(ctx context.Context, req Request, resolver Resolver) (*Result, error) {
	res := &Result{JobID: uuid.New().String(), Status: StatusSubmitted}

	if r.State != StatePublished {
		return fail(res, ErrNotPublished)
	}
	if r.fn == nil {
		return fail(res, ErrNoFunction)
	}
	if mismatch := ValidateRequest(r.Schema, req); mismatch != nil {
		return fail(res, mismatch)
	}

	stage, err := os.MkdirTemp("", "scoring-"+res.JobID)
	if err != nil {
		return fail(res, fmt.Errorf("create staging dir: %w", err))
	}
	defer os.RemoveAll(stage)

	args := make(Args, len(req))

	// Inputs and params resolve before anything runs; a single
	// unresolvable location fails the whole invocation.
	for name, ref := range req {
		if entry, ok := r.Schema.input(name); ok {
			arg, err := resolveInput(ctx, entry, ref, resolver)
			if err != nil {
				return fail(res, err)
			}
			args[name] = arg
			continue
		}
		if entry, ok := r.Schema.param(name); ok {
			args[name] = Arg{Entry: entry, Value: ref.Value}
			continue
		}
		if entry, ok := r.Schema.output(name); ok {
			if _, err := requireRef(name, ref); err != nil {
				return fail(res, &DataAccessError{Param: name, Ref: ref.Ref, Err: err})
			}
			args[name] = Arg{Entry: entry, Path: filepath.Join(stage, name)}
		}
	}

	if err := r.fn.Run(ctx, args); err != nil {
		return fail(res, &ExecutionError{Service: r.ServiceName, Err: err})
	}

	// Every declared output must exist in staging before any of them
	// is published.
	for _, entry := range r.Schema.Outputs {
		staged := args[entry.Name].Path
		if _, err := os.Stat(staged); err != nil {
			return fail(res, &ExecutionError{
				Service: r.ServiceName,
				Err:     fmt.Errorf("output %q not written", entry.Name),
			})
		}
	}

	outputs := make(map[string]string, len(r.Schema.Outputs))
	for _, entry := range r.Schema.Outputs {
		dest := req[entry.Name].Ref
		if err := resolver.Store(ctx, args[entry.Name].Path, dest); err != nil {
			return fail(res, &DataAccessError{Param: entry.Name, Ref: dest, Err: err})
		}
		outputs[entry.Name] = dest
	}

	res.Status = StatusSucceeded
	res.Outputs = outputs
	return res, nil
}

func resolveInput(ctx context.Context, entry Entry, ref DataRef, resolver Resolver) (Arg, error) {
	if entry.Kind == KindPrimitive {
		return Arg{Entry: entry, Value: ref.Value}, nil
	}
	loc, err := requireRef(entry.Name, ref)
	if err != nil {
		return Arg{}, &DataAccessError{Param: entry.Name, Ref: ref.Ref, Err: err}
	}
	path, err := resolver.Fetch(ctx, loc)
	if err != nil {
		return Arg{}, &DataAccessError{Param: entry.Name, Ref: loc, Err: err}
	}
	return Arg{Entry: entry, Path: path}, nil
}

func fail(res *Result, err error) (*Result, error) {
	res.Status = StatusFailed
	res.Err = err
	return res, err
}
