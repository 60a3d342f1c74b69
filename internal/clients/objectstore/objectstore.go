// Package objectstore adapts Google Cloud Storage into the ObjectStore
// contract: upload/download/presign against a single bucket. Upload stores
// each object under uploads/<unix-millis>-<name>, so every call writes a new
// key: uploading the same name twice yields two objects, and a key is not
// derived from the name or task id alone. Grounded on internal/clients/gcp's BucketService, narrowed from its
// multi-bucket-category shape to the single karaoke-assets bucket this
// pipeline needs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/neurobridge-backend/internal/clients/gcp"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// ObjectStore is the out-of-scope storage contract the pipeline consumes.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (key string, err error)
	UploadFromURL(ctx context.Context, url string, name string) (key string, err error)
	Download(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type gcsObjectStore struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	useDummy      bool
}

// New builds a GCS-backed ObjectStore. When GOOGLE_APPLICATION_CREDENTIALS{,_JSON}
// is absent, it runs in dummy mode: PresignGet returns a deterministic
// storage.googleapis.com URL instead of a signed one, mirroring the teacher
// stack's presign-or-placeholder fallback for environments without signing
// credentials configured.
func New(log *logger.Logger, bucket string) (ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("objectstore: missing bucket name")
	}
	ctx := context.Background()
	opts := gcp.ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed to create storage client: %w", err)
	}
	dummy := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")) == "" &&
		strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) == ""
	return &gcsObjectStore{
		log:           log.With("client", "ObjectStore"),
		storageClient: client,
		bucket:        bucket,
		useDummy:      dummy,
	}, nil
}

func (s *gcsObjectStore) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	key := generateKey(name)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.storageClient.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("objectstore: write %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("objectstore: close writer for %q: %w", key, err)
	}
	return key, nil
}

func (s *gcsObjectStore) UploadFromURL(ctx context.Context, url string, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("objectstore: build request for %q: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("objectstore: fetch %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("objectstore: fetch %q: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("objectstore: read body of %q: %w", url, err)
	}
	return s.Upload(ctx, data, name, resp.Header.Get("Content-Type"))
}

// readCloserWithCancel keeps the context alive for the life of the reader;
// canceling before the reader is consumed truncates every download to 0 bytes.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (s *gcsObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	dlCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	rc, err := s.storageClient.Bucket(s.bucket).Object(key).NewReader(dlCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("objectstore: open reader for %q: %w", key, err)
	}
	wrapped := &readCloserWithCancel{ReadCloser: rc, cancel: cancel}
	defer wrapped.Close()
	return io.ReadAll(wrapped)
}

func (s *gcsObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.useDummy {
		s.log.With("key", key).Debug("objectstore running in dummy mode, returning public URL")
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
	}
	url, err := s.storageClient.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: sign %q: %w", key, err)
	}
	return url, nil
}

func generateKey(name string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), sanitized)
}
