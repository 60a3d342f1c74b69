package karaoke

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickInitTranscript implements spec §4.4 InitTranscript: Task.status =
// SPLIT_COMPLETED and no existing TRANSCRIPT step creates one in INIT and
// advances the Task to IN_TRANSCRIPT_PROCESS.
func (d *Deps) tickInitTranscript(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	tasks, err := d.Tasks.ListByStatusWithoutStep(claim, domain.TaskSplitCompleted, domain.StepTranscript, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("init_transcript: claim failed", "error", err)
		return
	}

	for _, t := range tasks {
		taskID := t.ID
		if err := d.withTx(ctx, func(dbc dbctx.Context) error {
			task, err := d.Tasks.LockByID(dbc, taskID)
			if err != nil {
				return err
			}
			if task.Status != domain.TaskSplitCompleted {
				return nil
			}
			if _, err := d.Steps.GetActiveForTaskKind(dbc, taskID, domain.StepTranscript); err == nil {
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			step, err := d.Steps.Create(dbc, &domain.Step{
				TaskID:  taskID,
				Kind:    domain.StepTranscript,
				Status:  domain.StepInit,
				Payload: map[string]interface{}{},
			})
			if err != nil {
				return err
			}
			if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
				"status": domain.TaskInTranscriptProcess,
			}); err != nil {
				return err
			}
			return d.StepLogs.Append(dbc, &domain.StepLog{
				TaskID: taskID,
				StepID: &step.ID,
				Event:  "transcript_initialized",
				Data:   map[string]interface{}{},
			})
		}); err != nil {
			d.Log.Warn("init_transcript: transaction failed", "task_id", taskID, "error", err)
		}
	}
}
