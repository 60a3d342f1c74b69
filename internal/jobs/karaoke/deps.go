package karaoke

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/clients/aligner"
	"github.com/yungbote/neurobridge-backend/internal/clients/asr"
	"github.com/yungbote/neurobridge-backend/internal/clients/notifier"
	"github.com/yungbote/neurobridge-backend/internal/clients/objectstore"
	"github.com/yungbote/neurobridge-backend/internal/clients/splitter"

	repos "github.com/yungbote/neurobridge-backend/internal/data/repos/karaoke"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

// Deps bundles every repo and provider a karaoke phase worker needs. A
// single Deps is shared by every phase worker in a process.
type Deps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Cfg    Config

	Tasks    repos.TaskRepo
	Steps    repos.StepRepo
	StepLogs repos.StepLogRepo
	Tracks   repos.TrackRepo

	ObjectStore objectstore.ObjectStore
	Splitter    splitter.Splitter
	ASR         asr.ASR
	Aligner     aligner.Aligner
	Notifier    notifier.Notifier
}

// StartAll launches every phase worker's loop against ctx.
func (d *Deps) StartAll(ctx context.Context) {
	newPhaseRunner("InitSplit", d.Log, d.Cfg.TickInterval, d.tickInitSplit).Start(ctx)
	newPhaseRunner("SubmitSplit", d.Log, d.Cfg.TickInterval, d.tickSubmitSplit).Start(ctx)
	newPhaseRunner("PollSplit", d.Log, d.Cfg.TickInterval, d.tickPollSplit).Start(ctx)

	newPhaseRunner("InitTranscript", d.Log, d.Cfg.TickInterval, d.tickInitTranscript).Start(ctx)
	newPhaseRunner("SubmitTranscript", d.Log, d.Cfg.TickInterval, d.tickSubmitTranscript).Start(ctx)
	newPhaseRunner("PollTranscript", d.Log, d.Cfg.TickInterval, d.tickPollTranscript).Start(ctx)

	newPhaseRunner("InitSubtitles", d.Log, d.Cfg.TickInterval, d.tickInitSubtitles).Start(ctx)
	newPhaseRunner("FetchSubtitles", d.Log, d.Cfg.TickInterval, d.tickFetchSubtitles).Start(ctx)

	newPhaseRunner("Assemble", d.Log, d.Cfg.TickInterval, d.tickAssemble).Start(ctx)
}

// withTx runs fn inside a fresh GORM transaction, handing it a dbctx.Context
// whose Tx is non-nil so repo LockByID calls take a row lock.
func (d *Deps) withTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// failStep applies the spec §4.8 retry policy: increment attempts, decide
// FAILED vs FINAL_FAILED (+ Task -> FAILED, + error notification), and append
// an audit StepLog. Must run inside the same locked transaction that would
// have recorded success.
func (d *Deps) failStep(dbc dbctx.Context, step *domain.Step, cause error) error {
	attempts := step.Attempts + 1
	newStatus := domain.StepFailed
	if d.Cfg.Policy.IsFinal(attempts) {
		newStatus = domain.StepFinalFailed
	}

	updates := map[string]interface{}{
		"attempts": attempts,
		"status":   newStatus,
	}
	if err := d.Steps.UpdateFields(dbc, step.ID, updates); err != nil {
		return err
	}

	kind := "unknown_error"
	if we, ok := cause.(*workerr.Error); ok {
		kind = string(we.Kind)
	}

	logData := map[string]interface{}{
		"kind":     kind,
		"message":  cause.Error(),
		"attempts": attempts,
	}

	if newStatus == domain.StepFinalFailed {
		if err := d.Tasks.UpdateFields(dbc, step.TaskID, map[string]interface{}{
			"status": domain.TaskFailed,
		}); err != nil {
			return err
		}
		if d.Notifier != nil {
			_ = d.Notifier.SendErrorNotification(dbc.Ctx, cause, "task_id="+step.TaskID.String()+" step="+string(step.Kind))
		}
	}

	if err := d.StepLogs.Append(dbc, &domain.StepLog{
		TaskID: step.TaskID,
		StepID: &step.ID,
		Event:  "step_failed",
		Data:   logData,
	}); err != nil {
		return err
	}
	return nil
}

func now() time.Time { return time.Now() }

// recordStepFailure locks step fresh and applies the retry policy. Shared by
// every phase worker's external-call-failed path.
func (d *Deps) recordStepFailure(ctx context.Context, stepID uuid.UUID, cause error) {
	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		return d.failStep(dbc, s, cause)
	})
	if err != nil {
		d.Log.Warn("record_step_failure: failed", "step_id", stepID, "error", err)
	}
}
