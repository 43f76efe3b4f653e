package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/recruitdesk/apiserver/config"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is an archived document. Bodies are single PDFs and are kept in
// memory.
type Object struct {
	Key         string
	ContentType string
	// Filename is served as the attachment name on direct downloads.
	Filename string
	Metadata map[string]string
	Body     []byte
}

// Backend is implemented by each object store.
type Backend interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, obj Object) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Bucket() string
}

// Storage holds archived documents such as sent offer-letter PDFs.
type Storage struct {
	backend Backend
}

func NewStorage(backend Backend) *Storage {
	return &Storage{backend: backend}
}

// NewFromConfig builds the configured backend and makes sure its bucket exists.
// It returns nil, nil when no backend is configured.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	var (
		backend Backend
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		backend, err = NewMinioClient(cfg.Minio)
	case "gcs":
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return NewStorage(backend), nil
}

func (s *Storage) Put(ctx context.Context, obj Object) error {
	if err := validKey(obj.Key); err != nil {
		return err
	}
	if obj.ContentType == "" {
		obj.ContentType = "application/octet-stream"
	}
	return s.backend.Put(ctx, obj)
}

// Get opens an object. Missing keys yield ErrObjectNotFound.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return s.backend.Open(ctx, key)
}

// Delete removes an object. Deleting a missing key is not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.backend.Remove(ctx, key)
}

func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

func validKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return errors.New("object key is required")
	case strings.HasPrefix(key, "/"), strings.Contains(key, ".."):
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
