package karaoke

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickInitSubtitles implements spec §4.5 InitSubtitles: locate the COMPLETED
// TRANSCRIPT step and copy its transcript_id into a new SUBTITLES step;
// submit and poll are fused into a single FetchSubtitles operation.
func (d *Deps) tickInitSubtitles(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	tasks, err := d.Tasks.ListByStatusWithoutStep(claim, domain.TaskTranscriptCompleted, domain.StepSubtitles, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("init_subtitles: claim failed", "error", err)
		return
	}

	for _, t := range tasks {
		taskID := t.ID
		if err := d.withTx(ctx, func(dbc dbctx.Context) error {
			task, err := d.Tasks.LockByID(dbc, taskID)
			if err != nil {
				return err
			}
			if task.Status != domain.TaskTranscriptCompleted {
				return nil
			}
			if _, err := d.Steps.GetActiveForTaskKind(dbc, taskID, domain.StepSubtitles); err == nil {
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			transcriptStep, err := d.Steps.GetActiveForTaskKind(dbc, taskID, domain.StepTranscript)
			if err != nil {
				return err
			}
			payload := map[string]interface{}{}
			if v, ok := transcriptStep.Payload["transcript_id"]; ok {
				payload["transcript_id"] = v
			}

			step, err := d.Steps.Create(dbc, &domain.Step{
				TaskID:  taskID,
				Kind:    domain.StepSubtitles,
				Status:  domain.StepInit,
				Payload: payload,
			})
			if err != nil {
				return err
			}
			if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
				"status": domain.TaskInSubtitlesProcess,
			}); err != nil {
				return err
			}
			return d.StepLogs.Append(dbc, &domain.StepLog{
				TaskID: taskID,
				StepID: &step.ID,
				Event:  "subtitles_initialized",
				Data:   map[string]interface{}{},
			})
		}); err != nil {
			d.Log.Warn("init_subtitles: transaction failed", "task_id", taskID, "error", err)
		}
	}
}
