package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

// GCSStore keeps checkpoints as objects in a Google Cloud Storage bucket.
type GCSStore struct {
	Bucket string
	// Prefix is prepended to every key, e.g. "runs/ptb/".
	Prefix string
	// Client is used when set; otherwise each call creates and closes one
	// with default credentials.
	Client *storage.Client
}

var _ Store = (*GCSStore)(nil)

func (s *GCSStore) client(ctx context.Context) (*storage.Client, func(), error) {
	if s.Client != nil {
		return s.Client, func() {}, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating GCS storage client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

func (s *GCSStore) url(key string) string {
	return "gs://" + s.Bucket + "/" + s.Prefix + key
}

// Put uploads the checkpoint.
func (s *GCSStore) Put(ctx context.Context, key string, r io.Reader) error {
	log := klog.FromContext(ctx)

	client, done, err := s.client(ctx)
	if err != nil {
		return err
	}
	defer done()

	gcsURL := s.url(key)
	log.Info("uploading checkpoint to GCS", "destination", gcsURL)

	startedAt := time.Now()
	w := client.Bucket(s.Bucket).Object(s.Prefix + key).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("uploading to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing GCS writer: %w", err)
	}

	log.Info("uploaded checkpoint to GCS", "url", gcsURL, "bytes", n, "duration", time.Since(startedAt))
	return nil
}

// Get opens a reader on the checkpoint object.
func (s *GCSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	client, done, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	gcsURL := s.url(key)
	klog.FromContext(ctx).Info("downloading checkpoint from GCS", "source", gcsURL)

	r, err := client.Bucket(s.Bucket).Object(s.Prefix + key).NewReader(ctx)
	if err != nil {
		done()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, gcsURL)
		}
		return nil, fmt.Errorf("opening object from GCS %q: %w", gcsURL, err)
	}
	return &gcsReader{Reader: r, done: done}, nil
}

// gcsReader closes the client along with the object reader.
type gcsReader struct {
	*storage.Reader
	done func()
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	r.done()
	return err
}
