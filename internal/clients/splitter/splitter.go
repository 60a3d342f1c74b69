// Package splitter hand-rolls a LALAL.AI-style vocal/instrumental separation
// client. Grounded on internal/clients/openai/client.go's raw net/http JSON
// idiom (no SDK exists for this provider in the example pack) and on
// lalal_client.py for the method shape.
package splitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/httpx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

type Stem string

const StemVocals Stem = "vocals"

type CheckState string

const (
	CheckStateProgress CheckState = "progress"
	CheckStateSuccess  CheckState = "success"
	CheckStateError    CheckState = "error"
)

// CheckResult is the outcome of polling a split task.
type CheckResult struct {
	State          CheckState
	Progress       int
	VocalURL       string
	InstrumentalURL string
	DurationSeconds float64
	ErrorMessage   string
}

// Splitter models LALAL.AI-style semantics: upload bytes, start a stem split,
// poll for completion.
type Splitter interface {
	Upload(ctx context.Context, data []byte, filename string) (fileID string, err error)
	StartSplit(ctx context.Context, fileID string, stem Stem) (taskID string, err error)
	Check(ctx context.Context, fileID string) (CheckResult, error)
}

type httpSplitter struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a Splitter backed by LALAL_API_KEY. LALAL_BASE_URL defaults to
// the production API root.
func New(log *logger.Logger) (Splitter, error) {
	apiKey := strings.TrimSpace(os.Getenv("LALAL_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("splitter: missing LALAL_API_KEY")
	}
	baseURL := strings.TrimSpace(os.Getenv("LALAL_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://www.lalal.ai/api"
	}
	return &httpSplitter{
		log:        log.With("client", "Splitter"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type splitterHTTPError struct {
	StatusCode int
	Body       string
}

func (e *splitterHTTPError) Error() string {
	return fmt.Sprintf("splitter http %d: %s", e.StatusCode, e.Body)
}

func (e *splitterHTTPError) HTTPStatusCode() int { return e.StatusCode }

func (s *httpSplitter) authHeader() string {
	return fmt.Sprintf("license %s", s.apiKey)
}

func (s *httpSplitter) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", workerr.Validation(err, nil)
	}
	if _, err := part.Write(data); err != nil {
		return "", workerr.Network(err, nil)
	}
	if err := mw.Close(); err != nil {
		return "", workerr.Validation(err, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload/", &body)
	if err != nil {
		return "", workerr.Network(err, nil)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", s.authHeader())

	resp, respBody, err := s.do(req)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Status string `json:"status"`
		ID     string `json:"id"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", workerr.Validation(err, map[string]any{"body": string(respBody)})
	}
	if parsed.Status != "success" || parsed.ID == "" {
		return "", workerr.Provider(fmt.Errorf("upload failed: %s", parsed.Error), map[string]any{"status_code": resp.StatusCode})
	}
	return parsed.ID, nil
}

func (s *httpSplitter) StartSplit(ctx context.Context, fileID string, stem Stem) (string, error) {
	params := map[string]any{
		"id":    fileID,
		"stem":  string(stem),
		"splitter": "phoenix",
	}
	paramsJSON, _ := json.Marshal([]map[string]any{params})

	form := strings.NewReader(fmt.Sprintf("params=%s", paramsJSON))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/split/", form)
	if err != nil {
		return "", workerr.Network(err, nil)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", s.authHeader())

	resp, respBody, err := s.do(req)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", workerr.Validation(err, map[string]any{"body": string(respBody)})
	}
	if parsed.Status != "success" {
		return "", workerr.Provider(fmt.Errorf("split failed: %s", parsed.Error), map[string]any{"status_code": resp.StatusCode})
	}
	// LALAL.AI tracks split progress by file id, not a distinct task id.
	return fileID, nil
}

func (s *httpSplitter) Check(ctx context.Context, fileID string) (CheckResult, error) {
	url := s.baseURL + "/check/?id=" + fileID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CheckResult{}, workerr.Network(err, nil)
	}
	req.Header.Set("Authorization", s.authHeader())

	resp, respBody, err := s.do(req)
	if err != nil {
		return CheckResult{}, err
	}

	var parsed struct {
		Status string `json:"status"`
		Result map[string]struct {
			Status string `json:"status"`
			Split  struct {
				Progress      int     `json:"progress"`
				StemTrackURL  string  `json:"stem_track"`
				BackTrackURL  string  `json:"back_track"`
				DurationSecs  float64 `json:"duration"`
			} `json:"split"`
			Error string `json:"error"`
		} `json:"result"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return CheckResult{}, workerr.Validation(err, map[string]any{"body": string(respBody)})
	}
	if parsed.Status != "success" {
		return CheckResult{}, workerr.Provider(fmt.Errorf("check failed: %s", parsed.Error), map[string]any{"status_code": resp.StatusCode})
	}

	entry, ok := parsed.Result[fileID]
	if !ok {
		return CheckResult{}, workerr.Provider(fmt.Errorf("check: no result entry for file %s", fileID), nil)
	}

	switch entry.Status {
	case "progress":
		return CheckResult{State: CheckStateProgress, Progress: entry.Split.Progress}, nil
	case "success":
		return CheckResult{
			State:           CheckStateSuccess,
			VocalURL:        entry.Split.StemTrackURL,
			InstrumentalURL: entry.Split.BackTrackURL,
			DurationSeconds: entry.Split.DurationSecs,
		}, nil
	case "error":
		return CheckResult{State: CheckStateError, ErrorMessage: entry.Error}, nil
	default:
		return CheckResult{}, workerr.Validation(fmt.Errorf("unknown check status %q", entry.Status), nil)
	}
}

func (s *httpSplitter) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, workerr.Network(err, nil)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, workerr.Network(err, nil)
	}
	if httpx.IsRetryableHTTPStatus(resp.StatusCode) {
		return resp, body, workerr.Provider(&splitterHTTPError{StatusCode: resp.StatusCode, Body: string(body)}, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, body, workerr.Provider(&splitterHTTPError{StatusCode: resp.StatusCode, Body: string(body)}, nil)
	}
	return resp, body, nil
}
