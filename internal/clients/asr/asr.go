// Package asr adapts cloud.google.com/go/speech into the ASR contract:
// Submit returns immediately with an opaque transcript id, Get polls for the
// result. Grounded on internal/clients/gcp/speech.go's recognition-config and
// response-parsing idiom, repurposed so the long-running-operation name
// becomes the transcript id instead of blocking on op.Wait.
package asr

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/protobuf/types/known/durationpb"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"

	"github.com/yungbote/neurobridge-backend/internal/clients/gcp"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

type GetResult struct {
	Status Status
	Words  []domain.Word
	Error  string
}

// ASR is the out-of-scope speech-to-text provider contract.
type ASR interface {
	Submit(ctx context.Context, audioURL, languageCode, taskID string) (transcriptID string, err error)
	Get(ctx context.Context, transcriptID string) (GetResult, error)
}

type gcpASR struct {
	log    *logger.Logger
	client *speech.Client
}

func New(log *logger.Logger) (ASR, error) {
	ctx := context.Background()
	c, err := speech.NewClient(ctx, gcp.ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("asr: speech client: %w", err)
	}
	return &gcpASR{log: log.With("client", "ASR"), client: c}, nil
}

// Submit kicks off a LongRunningRecognize against a GCS-resident vocal
// object and returns without waiting; the operation's name is durable and
// doubles as the spec's transcript_id.
func (a *gcpASR) Submit(ctx context.Context, audioURL, languageCode, taskID string) (string, error) {
	if !strings.HasPrefix(audioURL, "gs://") {
		return "", workerr.Validation(fmt.Errorf("asr: audio url must be gs://..., got %q", audioURL), nil)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               languageCode,
			EnableAutomaticPunctuation: true,
			EnableWordTimeOffsets:      true,
			Encoding:                   speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audioURL},
		},
	}

	op, err := a.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return "", workerr.Provider(err, map[string]any{"task_id": taskID})
	}
	return op.Name(), nil
}

// Get reattaches to the operation by name and polls once, never blocking.
func (a *gcpASR) Get(ctx context.Context, transcriptID string) (GetResult, error) {
	op := a.client.LongRunningRecognizeOperation(transcriptID)

	done, err := op.Poll(ctx)
	if err != nil {
		return GetResult{}, workerr.Provider(err, map[string]any{"transcript_id": transcriptID})
	}
	if !op.Done() {
		return GetResult{Status: StatusProcessing}, nil
	}

	if done == nil {
		return GetResult{Status: StatusQueued}, nil
	}

	words, err := wordsFromResponse(done)
	if err != nil {
		return GetResult{}, workerr.Validation(err, nil)
	}
	if len(words) == 0 {
		return GetResult{Status: StatusError, Error: "no words in transcription result"}, nil
	}
	return GetResult{Status: StatusCompleted, Words: words}, nil
}

func wordsFromResponse(resp *speechpb.LongRunningRecognizeResponse) ([]domain.Word, error) {
	if resp == nil {
		return nil, nil
	}
	var out []domain.Word
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		for _, w := range alt.Words {
			if w == nil {
				continue
			}
			startMs := durationMs(w.StartTime)
			endMs := durationMs(w.EndTime)
			var speaker *string
			if w.SpeakerTag != 0 {
				s := fmt.Sprintf("%d", w.SpeakerTag)
				speaker = &s
			}
			out = append(out, domain.Word{
				Text:       w.Word,
				StartMs:    startMs,
				EndMs:      endMs,
				Confidence: float64(w.Confidence),
				Speaker:    speaker,
			})
		}
	}
	return out, nil
}

func durationMs(d *durationpb.Duration) int {
	if d == nil {
		return 0
	}
	return int(d.GetSeconds())*1000 + int(d.GetNanos())/1_000_000
}
