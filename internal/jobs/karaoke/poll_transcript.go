package karaoke

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/clients/asr"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

// tickPollTranscript implements spec §4.4 PollTranscript. QUEUED/PROCESSING
// leave the step untouched; COMPLETED persists words on the Task; ERROR
// applies the retry policy.
func (d *Deps) tickPollTranscript(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	steps, err := d.Steps.ListPollCandidates(claim, domain.StepTranscript, d.Cfg.Policy.MaxAttempts, d.Cfg.TranscriptPollThreshold, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("poll_transcript: claim failed", "error", err)
		return
	}
	for _, step := range steps {
		d.pollOneTranscript(ctx, step.ID)
	}
}

func (d *Deps) pollOneTranscript(ctx context.Context, stepID uuid.UUID) {
	var transcriptID string
	var taskID uuid.UUID

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if s.Status != domain.StepInProcess && s.Status != domain.StepFailed {
			return nil
		}
		id, ok := s.Payload["transcript_id"].(string)
		if !ok || id == "" {
			return nil
		}
		transcriptID = id
		taskID = s.TaskID
		return nil
	})
	if err != nil {
		d.Log.Warn("poll_transcript: lock failed", "step_id", stepID, "error", err)
		return
	}
	if transcriptID == "" {
		return
	}

	result, err := d.ASR.Get(ctx, transcriptID)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	switch result.Status {
	case asr.StatusQueued, asr.StatusProcessing:
		return
	case asr.StatusError:
		d.recordStepFailure(ctx, stepID, workerr.Provider(errors.New(result.Error), nil))
		return
	case asr.StatusCompleted:
		d.finishTranscript(ctx, stepID, taskID, result.Words)
	}
}

func (d *Deps) finishTranscript(ctx context.Context, stepID, taskID uuid.UUID, words []domain.Word) {
	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if s.Status != domain.StepInProcess && s.Status != domain.StepFailed {
			return nil
		}
		if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
			"words":  words,
			"status": domain.TaskTranscriptCompleted,
		}); err != nil {
			return err
		}
		if err := d.Steps.UpdateFields(dbc, s.ID, map[string]interface{}{
			"status":       domain.StepCompleted,
			"processed_at": now(),
		}); err != nil {
			return err
		}
		return d.StepLogs.Append(dbc, &domain.StepLog{
			TaskID: taskID,
			StepID: &s.ID,
			Event:  "transcript_completed",
			Data:   map[string]interface{}{"word_count": len(words)},
		})
	})
	if err != nil {
		d.Log.Warn("poll_transcript: persist success failed", "step_id", stepID, "error", err)
	}
}
