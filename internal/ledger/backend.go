package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rocjay1/finance-tracker/internal/services"
)

// FileBackend keeps the collection in a JSON file on local disk.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a FileBackend for path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// Load reads the file; a missing file is an empty collection.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Path, err)
	}
	return data, nil
}

// Save replaces the file atomically through a temp file in the same directory.
func (b *FileBackend) Save(ctx context.Context, data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), b.Path)
}

// BlobStore is the subset of blob storage the BlobBackend needs.
type BlobStore interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// BlobBackend keeps the collection as a single JSON blob.
type BlobBackend struct {
	blob      BlobStore
	container string
	name      string
}

// NewBlobBackend returns a backend storing the collection at container/name.
func NewBlobBackend(blob BlobStore, container, name string) *BlobBackend {
	return &BlobBackend{blob: blob, container: container, name: name}
}

func (b *BlobBackend) Load(ctx context.Context) ([]byte, error) {
	text, err := b.blob.DownloadText(ctx, b.container, b.name)
	if errors.Is(err, services.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (b *BlobBackend) Save(ctx context.Context, data []byte) error {
	return b.blob.UploadText(ctx, b.container, b.name, string(data))
}
