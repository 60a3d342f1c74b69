package karaoke

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/clients/aligner"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/karaoke/vtt"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickFetchSubtitles implements spec §4.5 FetchSubtitles: the submit and
// poll halves are fused into a single round trip since this module's Aligner
// formats VTT locally from words already on the Task rather than polling a
// remote transcript id.
func (d *Deps) tickFetchSubtitles(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	steps, err := d.Steps.ListFetchCandidates(claim, domain.StepSubtitles, d.Cfg.Policy.MaxAttempts, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("fetch_subtitles: claim failed", "error", err)
		return
	}
	for _, step := range steps {
		d.fetchOneSubtitles(ctx, step.ID)
	}
}

func (d *Deps) fetchOneSubtitles(ctx context.Context, stepID uuid.UUID) {
	var taskID uuid.UUID
	var words []domain.Word

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if _, ok := s.Payload["transcript_id"]; !ok {
			return nil
		}
		t, e := d.Tasks.LockByID(dbc, s.TaskID)
		if e != nil {
			return e
		}
		taskID = t.ID
		words = []domain.Word(t.Words)
		return nil
	})
	if err != nil {
		d.Log.Warn("fetch_subtitles: lock failed", "step_id", stepID, "error", err)
		return
	}
	if taskID == uuid.Nil {
		return
	}

	vttText, err := d.Aligner.GetSubtitles(ctx, words, aligner.FormatVTT, 80)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	subtitles, err := vtt.Parse(vttText, d.Log)
	if err != nil {
		d.recordStepFailure(ctx, stepID, err)
		return
	}

	err = d.withTx(ctx, func(dbc dbctx.Context) error {
		s, e := d.Steps.LockByID(dbc, stepID)
		if e != nil {
			return e
		}
		if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
			"subtitles": subtitles,
			"status":    domain.TaskSubtitlesCompleted,
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
			Event:  "subtitles_completed",
			Data:   map[string]interface{}{"cue_count": len(subtitles)},
		})
	})
	if err != nil {
		d.Log.Warn("fetch_subtitles: persist success failed", "step_id", stepID, "error", err)
	}
}
