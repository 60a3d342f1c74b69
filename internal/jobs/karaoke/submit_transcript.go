package karaoke

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickSubmitTranscript implements spec §4.4 SubmitTranscript: obtain a
// readable URL for the vocal object and hand it to the ASR provider.
func (d *Deps) tickSubmitTranscript(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	steps, err := d.Steps.ListSubmitCandidates(claim, domain.StepTranscript, d.Cfg.Policy.MaxAttempts, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("submit_transcript: claim failed", "error", err)
		return
	}
	for _, step := range steps {
		d.submitOneTranscript(ctx, step.ID)
	}
}

func (d *Deps) submitOneTranscript(ctx context.Context, stepID uuid.UUID) {
	var vocalKey, language string
	var taskID uuid.UUID

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if (s.Status != domain.StepInit && s.Status != domain.StepFailed) || s.Payload["transcript_id"] != nil {
			return nil
		}
		t, e := d.Tasks.LockByID(dbc, s.TaskID)
		if e != nil {
			return e
		}
		if t.VocalKey == nil {
			return nil // not ready; revisit
		}
		taskID = t.ID
		vocalKey = *t.VocalKey
		language = t.Language
		return nil
	})
	if err != nil {
		d.Log.Warn("submit_transcript: lock failed", "step_id", stepID, "error", err)
		return
	}
	if vocalKey == "" {
		return
	}

	url, err := d.ObjectStore.PresignGet(ctx, vocalKey, d.Cfg.PresignTTL)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	transcriptID, err := d.ASR.Submit(ctx, url, language, taskID.String())
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	submittedAt := now()
	err = d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if s.Status != domain.StepInit && s.Status != domain.StepFailed {
			return nil
		}
		if err := d.Steps.UpdateFields(dbc, s.ID, map[string]interface{}{
			"status":       domain.StepInProcess,
			"payload":      map[string]interface{}{"transcript_id": transcriptID},
			"submitted_at": submittedAt,
		}); err != nil {
			return err
		}
		return d.StepLogs.Append(dbc, &domain.StepLog{
			TaskID: s.TaskID,
			StepID: &s.ID,
			Event:  "transcript_submitted",
			Data:   map[string]interface{}{"transcript_id": transcriptID},
		})
	})
	if err != nil {
		d.Log.Warn("submit_transcript: persist failed", "step_id", stepID, "error", err)
	}
}
