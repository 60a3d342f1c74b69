package karaoke

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/karaoke/fuse"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickAssemble implements spec §4.6 Assemble: fuse words and subtitles into
// TranscriptLines, create the Track, and mark the Task COMPLETED.
func (d *Deps) tickAssemble(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	tasks, err := d.Tasks.ListByStatus(claim, domain.TaskSubtitlesCompleted, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("assemble: claim failed", "error", err)
		return
	}
	for _, t := range tasks {
		d.assembleOne(ctx, t.ID)
	}
}

func (d *Deps) assembleOne(ctx context.Context, taskID uuid.UUID) {
	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		task, err := d.Tasks.LockByID(dbc, taskID)
		if err != nil {
			return err
		}
		if task.Status != domain.TaskSubtitlesCompleted || task.TrackID != nil {
			return nil
		}
		if task.VocalKey == nil || task.InstrumentalKey == nil {
			return nil
		}

		words := []domain.Word(task.Words)
		subtitles := []domain.Subtitle(task.Subtitles)
		lines, coverage := fuse.Fuse(words, subtitles)

		track, err := d.Tracks.Create(dbc, &domain.Track{
			OriginalKey:     task.OriginalKey,
			VocalKey:        *task.VocalKey,
			InstrumentalKey: *task.InstrumentalKey,
			Language:        task.Language,
			TranscriptLines: datatypes.JSONSlice[domain.TranscriptLine](lines),
		})
		if err != nil {
			return err
		}

		if err := d.Tasks.UpdateFields(dbc, taskID, map[string]interface{}{
			"track_id": track.ID,
			"status":   domain.TaskCompleted,
		}); err != nil {
			return err
		}

		return d.StepLogs.Append(dbc, &domain.StepLog{
			TaskID: taskID,
			Event:  "assembled",
			Data: map[string]interface{}{
				"track_id":            track.ID,
				"coverage_percentage": coverage.CoveragePercentage,
				"matched_words":       coverage.MatchedWords,
				"total_words":         coverage.TotalWords,
				"unmatched_examples":  coverage.UnmatchedExamples,
				"timing_issues":       fuse.Validate(lines),
			},
		})
	})
	if err != nil {
		d.Log.Warn("assemble: transaction failed", "task_id", taskID, "error", err)
	}
}
