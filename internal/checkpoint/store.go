package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// Store persists checkpoints by key.
type Store interface {
	// Put stores the contents of r under key, replacing any previous checkpoint.
	Put(ctx context.Context, key string, r io.Reader) error

	// Get opens the checkpoint stored under key. It returns ErrNotFound when
	// there is none.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// DirStore keeps checkpoints as files in a local directory.
type DirStore struct {
	Dir string
}

var _ Store = (*DirStore)(nil)

func (s *DirStore) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(key) {
		return "", fmt.Errorf("invalid checkpoint key %q", key)
	}
	return filepath.Join(s.Dir, key), nil
}

// Put writes to a temporary file and renames it into place.
func (s *DirStore) Put(ctx context.Context, key string, r io.Reader) error {
	log := klog.FromContext(ctx)

	dest, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}
	tempFile, err := os.CreateTemp(dir, ".checkpoint")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Error(err, "removing temp file", "path", tempFile.Name())
			}
		}
	}()

	n, err := io.Copy(tempFile, r)
	if err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempFile.Name(), dest); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false

	log.V(2).Info("wrote checkpoint", "path", dest, "bytes", n)
	return nil
}

// Get opens the checkpoint file.
func (s *DirStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p) //nolint:gosec // G304: path is confined to the store directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	return f, nil
}
