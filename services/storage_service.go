package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"

	"batch-scorer-server/scoring"
)

// BlobStore interface for driver artifacts and scoring data references.
// Save/Load/Delete handle generated artifacts under the store's own
// namespace; Stage and Upload move referenced data between the store and
// the local filesystem.
type BlobStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Stage(ctx context.Context, ref, localPath string) error
	Upload(ctx context.Context, localPath, ref string) error
}

// IsRemoteRef reports whether a data reference points at object storage
// rather than the local filesystem.
func IsRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

func splitS3Ref(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed object storage reference: %s", ref)
	}
	return parts[0], parts[1], nil
}

// LocalBlobStore implements BlobStore using the local filesystem
type LocalBlobStore struct {
	basePath string
}

func NewLocalBlobStore(basePath string) (*LocalBlobStore, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &LocalBlobStore{basePath: basePath}, nil
}

func (s *LocalBlobStore) Save(ctx context.Context, key string, data []byte) error {
	fullPath := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, data, 0644)
}

func (s *LocalBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.basePath, key))
}

func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(s.basePath, key))
}

func (s *LocalBlobStore) Stage(ctx context.Context, ref, localPath string) error {
	return copyFile(ref, localPath)
}

func (s *LocalBlobStore) Upload(ctx context.Context, localPath, ref string) error {
	return copyFile(localPath, ref)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// S3BlobStore implements BlobStore using AWS S3
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

func NewS3BlobStore(bucket string) (*S3BlobStore, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}

	// Instrument AWS SDK v2 with X-Ray for automatic S3 operation tracing
	awsv2.AWSV2Instrumentor(&cfg.APIOptions)

	client := s3.NewFromConfig(cfg)
	return &S3BlobStore{client: client, bucket: bucket}, nil
}

func (s *S3BlobStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (s *S3BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	return io.ReadAll(output.Body)
}

func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3BlobStore) Stage(ctx context.Context, ref, localPath string) error {
	bucket, key, err := splitS3Ref(ref)
	if err != nil {
		return err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer output.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, output.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *S3BlobStore) Upload(ctx context.Context, localPath, ref string) error {
	bucket, key, err := splitS3Ref(ref)
	if err != nil {
		return err
	}

	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   in,
	})
	return err
}

// NewBlobStore creates the appropriate blob store based on environment
func NewBlobStore(storageType, pathOrBucket string) (BlobStore, error) {
	switch storageType {
	case "s3":
		return NewS3BlobStore(pathOrBucket)
	case "local":
		return NewLocalBlobStore(pathOrBucket)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// GenerateDriverKey generates the storage key for a service's driver
// descriptor and manifest artifact
func GenerateDriverKey(serviceID int64) string {
	return fmt.Sprintf("drivers/services/svc_%d.json", serviceID)
}

// StoreResolver adapts a BlobStore to the scoring adapter's Resolver
// interface. Remote references are staged into WorkDir; plain paths are
// handled by the local resolver directly.
type StoreResolver struct {
	Blobs   BlobStore
	WorkDir string
}

func (r StoreResolver) Fetch(ctx context.Context, ref string) (string, error) {
	if !IsRemoteRef(ref) {
		return scoring.LocalResolver{}.Fetch(ctx, ref)
	}
	local := filepath.Join(r.WorkDir, filepath.Base(ref))
	if err := r.Blobs.Stage(ctx, ref, local); err != nil {
		return "", err
	}
	return local, nil
}

func (r StoreResolver) Store(ctx context.Context, localPath, ref string) error {
	if !IsRemoteRef(ref) {
		return scoring.LocalResolver{}.Store(ctx, localPath, ref)
	}
	return r.Blobs.Upload(ctx, localPath, ref)
}
