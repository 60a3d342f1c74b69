package karaoke

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/clients/splitter"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

// tickPollSplit implements spec §4.3 PollSplit. PROGRESS leaves the step
// untouched; SUCCESS uploads both stems into ObjectStore and advances the
// Task; ERROR applies the retry policy.
func (d *Deps) tickPollSplit(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	steps, err := d.Steps.ListPollCandidates(claim, domain.StepSplit, d.Cfg.Policy.MaxAttempts, d.Cfg.SplitPollThreshold, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("poll_split: claim failed", "error", err)
		return
	}
	for _, step := range steps {
		d.pollOneSplit(ctx, step.ID)
	}
}

func (d *Deps) pollOneSplit(ctx context.Context, stepID uuid.UUID) {
	var fileID string
	var taskID uuid.UUID

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if s.Status != domain.StepInProcess && s.Status != domain.StepFailed {
			return nil
		}
		id, ok := s.Payload["provider_file_id"].(string)
		if !ok || id == "" {
			return nil
		}
		fileID = id
		taskID = s.TaskID
		return nil
	})
	if err != nil {
		d.Log.Warn("poll_split: lock failed", "step_id", stepID, "error", err)
		return
	}
	if fileID == "" {
		return
	}

	result, err := d.Splitter.Check(ctx, fileID)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	switch result.State {
	case splitter.CheckStateProgress:
		return // not ready; revisit next poll
	case splitter.CheckStateError:
		d.recordStepFailure(ctx, stepID, workerr.Provider(fmt.Errorf("split failed: %s", result.ErrorMessage), nil))
		return
	case splitter.CheckStateSuccess:
		d.finishSplit(ctx, stepID, taskID, result)
	}
}

func (d *Deps) finishSplit(ctx context.Context, stepID, taskID uuid.UUID, result splitter.CheckResult) {
	vocalKey, err := d.ObjectStore.UploadFromURL(ctx, result.VocalURL, fmt.Sprintf("jobs/%s/vocal.m4a", taskID))
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}
	instrumentalKey, err := d.ObjectStore.UploadFromURL(ctx, result.InstrumentalURL, fmt.Sprintf("jobs/%s/instrumental.m4a", taskID))
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	err = d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if s.Status != domain.StepInProcess && s.Status != domain.StepFailed {
			return nil
		}
		if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
			"vocal_key":        vocalKey,
			"instrumental_key": instrumentalKey,
			"status":           domain.TaskSplitCompleted,
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
			Event:  "split_completed",
			Data:   map[string]interface{}{"vocal_key": vocalKey, "instrumental_key": instrumentalKey},
		})
	})
	if err != nil {
		d.Log.Warn("poll_split: persist success failed", "step_id", stepID, "error", err)
	}
}
