package karaoke

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/clients/asr"
	"github.com/yungbote/neurobridge-backend/internal/clients/splitter"
)

type fakeObjectStore struct {
	downloadData map[string][]byte
	downloadErr  error
	uploadedURLs []string
}

func (f *fakeObjectStore) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	return "keys/" + name, nil
}

func (f *fakeObjectStore) UploadFromURL(ctx context.Context, url string, name string) (string, error) {
	f.uploadedURLs = append(f.uploadedURLs, url)
	return "keys/" + name, nil
}

func (f *fakeObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	if f.downloadData != nil {
		if data, ok := f.downloadData[key]; ok {
			return data, nil
		}
	}
	return []byte("fake-audio-bytes"), nil
}

func (f *fakeObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

type fakeSplitter struct {
	uploadFileID string
	uploadErr    error
	startTaskID  string
	startErr     error
	checkResult  splitter.CheckResult
	checkErr     error
	checkCalls   int
}

func (f *fakeSplitter) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.uploadFileID == "" {
		return "file-1", nil
	}
	return f.uploadFileID, nil
}

func (f *fakeSplitter) StartSplit(ctx context.Context, fileID string, stem splitter.Stem) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	if f.startTaskID == "" {
		return "provider-task-1", nil
	}
	return f.startTaskID, nil
}

func (f *fakeSplitter) Check(ctx context.Context, fileID string) (splitter.CheckResult, error) {
	f.checkCalls++
	if f.checkErr != nil {
		return splitter.CheckResult{}, f.checkErr
	}
	return f.checkResult, nil
}

type fakeASR struct {
	submitID     string
	submitErr    error
	getResult    asr.GetResult
	getErr       error
	getCalls     int
	submitCalls  int
}

func (f *fakeASR) Submit(ctx context.Context, audioURL, languageCode, taskID string) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if f.submitID == "" {
		return "transcript-1", nil
	}
	return f.submitID, nil
}

func (f *fakeASR) Get(ctx context.Context, transcriptID string) (asr.GetResult, error) {
	f.getCalls++
	if f.getErr != nil {
		return asr.GetResult{}, f.getErr
	}
	return f.getResult, nil
}

type fakeNotifier struct {
	notifications []string
	errors        []string
}

func (f *fakeNotifier) SendNotification(ctx context.Context, message string) error {
	f.notifications = append(f.notifications, message)
	return nil
}

func (f *fakeNotifier) SendErrorNotification(ctx context.Context, err error, context string) error {
	f.errors = append(f.errors, context)
	return nil
}
