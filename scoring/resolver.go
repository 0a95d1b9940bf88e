package scoring

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Resolver makes declared data references usable by a scoring function.
// Fetch materializes an input reference as a local path; Store publishes
// a staged output file to its destination reference. Remote transports
// (object storage and the like) implement this interface outside the
// core; the core never interprets reference syntax itself.
type Resolver interface {
	Fetch(ctx context.Context, ref string) (string, error)
	Store(ctx context.Context, localPath, ref string) error
}

// LocalResolver resolves references as plain filesystem paths.
type LocalResolver struct{}

func (LocalResolver) Fetch(ctx context.Context, ref string) (string, error) {
	if _, err := os.Stat(ref); err != nil {
		return "", err
	}
	return ref, nil
}

func (LocalResolver) Store(ctx context.Context, localPath, ref string) error {
	if err := os.MkdirAll(filepath.Dir(ref), 0755); err != nil {
		return err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(ref)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// DataRef is one request value: either an inline primitive or a
// reference to data living elsewhere.
type DataRef struct {
	Value interface{} `json:"value,omitempty"`
	Ref   string      `json:"ref,omitempty"`
}

// Request maps declared names to the values or references supplied for
// one invocation. Output names carry destination references.
type Request map[string]DataRef

// ValidateRequest checks that a request supplies exactly the names the
// schema declares. Unknown and missing names are all reported.
func ValidateRequest(schema Schema, req Request) *SchemaMismatchError {
	supplied := make([]string, 0, len(req))
	for name := range req {
		supplied = append(supplied, name)
	}
	return CheckNames(schema, supplied)
}

func requireRef(name string, ref DataRef) (string, error) {
	if ref.Ref == "" {
		return "", fmt.Errorf("no location supplied for %q", name)
	}
	return ref.Ref, nil
}
