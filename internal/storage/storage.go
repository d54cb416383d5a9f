package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrExists      = errors.New("file already exists")
	ErrInvalidName = errors.New("invalid file name")
)

// Storage is a flat namespace of uploaded files.
type Storage interface {
	// Save stores reader under name. It fails with ErrExists instead of
	// overwriting an existing file.
	Save(ctx context.Context, name string, reader io.Reader, contentType string) error

	// Get opens the named file. Missing files yield ErrNotFound.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	Delete(ctx context.Context, name string) error

	Exists(ctx context.Context, name string) (bool, error)

	// List returns the raw listing of the storage location, unsorted.
	List(ctx context.Context) ([]string, error)

	// GetURL returns the public URL of the file.
	GetURL(ctx context.Context, name string) (string, error)

	GetSize(ctx context.Context, name string) (int64, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For R2
	AccessKey string // For R2
	SecretKey string // For R2
	Endpoint  string // For R2 or custom S3
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2", "s3":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ValidateName rejects names that are not a single path element.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
