package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPublished is returned when Invoke is called on a registration
// that never reached the Published state.
var ErrNotPublished = errors.New("registration is not published")

// ErrNoFunction is returned when Invoke is called on a registration
// that only describes a function without holding the callable itself.
var ErrNoFunction = errors.New("registration has no bound function")

// SchemaMismatchError reports every name that does not line up between a
// function's declared parameters and its schema (or between a request
// and the schema it is validated against). Missing holds declared names
// the other side did not supply; Unknown holds supplied names nothing
// declares.
type SchemaMismatchError struct {
	Missing []string
	Unknown []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown: "+strings.Join(e.Unknown, ", "))
	}
	return "schema mismatch (" + strings.Join(parts, "; ") + ")"
}

// DataAccessError reports a declared location that could not be read or
// written. Param is the schema name the location belongs to.
type DataAccessError struct {
	Param string
	Ref   string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed for %q (%s): %v", e.Param, e.Ref, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// ExecutionError wraps a failure raised inside the scoring function
// itself. The original message is preserved.
type ExecutionError struct {
	Service string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution of %q failed: %v", e.Service, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
