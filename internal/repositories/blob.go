package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"flymedia_backend/internal/localstore"

	"github.com/google/renameio/v2"
)

// blob holds one whole JSON collection. Load returns nil data when nothing
// has been written yet.
type blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	String() string
}

// fileBlob keeps the collection in a single file on disk.
type fileBlob struct {
	path string
}

func (b fileBlob) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	return data, nil
}

// Save replaces the file atomically so readers never see a half-written
// collection.
func (b fileBlob) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := renameio.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	return nil
}

func (b fileBlob) String() string { return b.path }

// localBlob keeps the collection under one key of the local key-value store.
type localBlob struct {
	store *localstore.Store
	key   string
}

func (b localBlob) Load(ctx context.Context) ([]byte, error) {
	value, ok, err := b.store.GetItem(ctx, b.key)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(value), nil
}

func (b localBlob) Save(ctx context.Context, data []byte) error {
	return b.store.SetItem(ctx, b.key, string(data))
}

func (b localBlob) String() string { return b.key }
