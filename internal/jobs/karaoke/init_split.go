package karaoke

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickInitSplit implements spec §4.3 InitSplit: Task.status = CREATED and no
// existing SPLIT step creates a SPLIT step in INIT and moves the Task to
// IN_SPLIT_PROCESS.
func (d *Deps) tickInitSplit(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	tasks, err := d.Tasks.ListByStatusWithoutStep(claim, domain.TaskCreated, domain.StepSplit, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("init_split: claim failed", "error", err)
		return
	}

	for _, t := range tasks {
		taskID := t.ID
		if err := d.withTx(ctx, func(dbc dbctx.Context) error {
			task, err := d.Tasks.LockByID(dbc, taskID)
			if err != nil {
				return err
			}
			if task.Status != domain.TaskCreated {
				return nil // advanced since claim; skip
			}
			if _, err := d.Steps.GetActiveForTaskKind(dbc, taskID, domain.StepSplit); err == nil {
				return nil // a SPLIT step already exists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			step, err := d.Steps.Create(dbc, &domain.Step{
				TaskID:  taskID,
				Kind:    domain.StepSplit,
				Status:  domain.StepInit,
				Payload: map[string]interface{}{},
			})
			if err != nil {
				return err
			}
			if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
				"status": domain.TaskInSplitProcess,
			}); err != nil {
				return err
			}
			return d.StepLogs.Append(dbc, &domain.StepLog{
				TaskID: taskID,
				StepID: &step.ID,
				Event:  "split_initialized",
				Data:   map[string]interface{}{},
			})
		}); err != nil {
			d.Log.Warn("init_split: transaction failed", "task_id", taskID, "error", err)
		}
	}
}
