package splitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

func newTestSplitter(t *testing.T, srv *httptest.Server) Splitter {
	t.Helper()
	t.Setenv("LALAL_API_KEY", "test-key")
	t.Setenv("LALAL_BASE_URL", srv.URL)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	s, err := New(log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSplitterUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "license test-key" {
			t.Errorf("missing/incorrect Authorization header: %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "id": "file-1"})
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	id, err := s.Upload(context.Background(), []byte("audio"), "song.m4a")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "file-1" {
		t.Fatalf("expected file-1, got %s", id)
	}
}

func TestSplitterUploadProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "bad file"})
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	_, err := s.Upload(context.Background(), []byte("audio"), "song.m4a")
	if err == nil {
		t.Fatal("expected an error on provider-reported failure")
	}
	if !workerr.Retryable(err) {
		t.Fatal("expected a provider failure to be retryable")
	}
}

func TestSplitterCheckProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"result": map[string]interface{}{
				"file-1": map[string]interface{}{
					"status": "progress",
					"split":  map[string]interface{}{"progress": 42},
				},
			},
		})
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	result, err := s.Check(context.Background(), "file-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != CheckStateProgress || result.Progress != 42 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSplitterCheckSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"result": map[string]interface{}{
				"file-1": map[string]interface{}{
					"status": "success",
					"split": map[string]interface{}{
						"stem_track": "https://provider.test/vocal.m4a",
						"back_track": "https://provider.test/instrumental.m4a",
						"duration":   123.4,
					},
				},
			},
		})
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	result, err := s.Check(context.Background(), "file-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != CheckStateSuccess {
		t.Fatalf("expected success state, got %+v", result)
	}
	if result.VocalURL != "https://provider.test/vocal.m4a" || result.InstrumentalURL != "https://provider.test/instrumental.m4a" {
		t.Fatalf("unexpected urls: %+v", result)
	}
}

func TestSplitterCheckErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"result": map[string]interface{}{
				"file-1": map[string]interface{}{
					"status": "error",
					"error":  "corrupt audio",
				},
			},
		})
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	result, err := s.Check(context.Background(), "file-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != CheckStateError || result.ErrorMessage != "corrupt audio" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSplitterDoClassifies5xxAsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("temporarily unavailable"))
	}))
	defer srv.Close()

	s := newTestSplitter(t, srv)
	_, err := s.Upload(context.Background(), []byte("audio"), "song.m4a")
	if err == nil {
		t.Fatal("expected an error on 503")
	}
	if !workerr.Retryable(err) {
		t.Fatal("expected a 503 to be classified as retryable")
	}
}
