package karaoke

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/clients/splitter"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickSubmitSplit implements spec §4.3 SubmitSplit: download the original
// object, upload it to the Splitter, start a vocal-stem split, and record the
// provider ids. External calls happen outside any row lock; a lock is only
// held while re-checking the precondition and persisting the outcome.
func (d *Deps) tickSubmitSplit(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	steps, err := d.Steps.ListSubmitCandidates(claim, domain.StepSplit, d.Cfg.Policy.MaxAttempts, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("submit_split: claim failed", "error", err)
		return
	}
	for _, step := range steps {
		d.submitOneSplit(ctx, step.ID)
	}
}

func (d *Deps) submitOneSplit(ctx context.Context, stepID uuid.UUID) {
	var step *domain.Step
	var taskKey string
	var taskIDStr string

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if (s.Status != domain.StepInit && s.Status != domain.StepFailed) || s.Payload["provider_file_id"] != nil {
			step = nil
			return nil
		}
		t, e := d.Tasks.LockByID(dbc, s.TaskID)
		if e != nil {
			return e
		}
		step = s
		taskKey = t.OriginalKey
		taskIDStr = t.ID.String()
		return nil
	})
	if err != nil {
		d.Log.Warn("submit_split: lock failed", "step_id", stepID, "error", err)
		return
	}
	if step == nil {
		return
	}

	data, err := d.ObjectStore.Download(ctx, taskKey)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	fileID, err := d.Splitter.Upload(ctx, data, fmt.Sprintf("%s.m4a", taskIDStr))
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	providerTaskID, err := d.Splitter.StartSplit(ctx, fileID, splitter.StemVocals)
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
		payload := map[string]interface{}{
			"provider_file_id": fileID,
			"provider_task_id": providerTaskID,
		}
		if err := d.Steps.UpdateFields(dbc, s.ID, map[string]interface{}{
			"status":       domain.StepInProcess,
			"payload":      payload,
			"submitted_at": submittedAt,
		}); err != nil {
			return err
		}
		return d.StepLogs.Append(dbc, &domain.StepLog{
			TaskID: s.TaskID,
			StepID: &s.ID,
			Event:  "split_submitted",
			Data:   map[string]interface{}{"provider_file_id": fileID, "provider_task_id": providerTaskID},
		})
	})
	if err != nil {
		d.Log.Warn("submit_split: persist failed", "step_id", stepID, "error", err)
	}
}
