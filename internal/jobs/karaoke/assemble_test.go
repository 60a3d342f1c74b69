package karaoke

import (
	"context"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func TestAssembleOneHappyPathCreatesTrackAndCompletesTask(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/assemble.wav")
	vocalKey := "keys/vocal.wav"
	instrumentalKey := "keys/instrumental.wav"
	words := []domain.Word{
		{Text: "hello", StartMs: 0, EndMs: 300, Confidence: 0.9},
		{Text: "world", StartMs: 400, EndMs: 900, Confidence: 0.9},
	}
	subtitles := []domain.Subtitle{{Text: "hello world", StartMs: 0, EndMs: 900}}
	if err := d.Tasks.UpdateFields(dbc, task.ID, map[string]interface{}{
		"vocal_key":       vocalKey,
		"instrumental_key": instrumentalKey,
		"words":           words,
		"subtitles":       subtitles,
		"status":          domain.TaskSubtitlesCompleted,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	d.assembleOne(ctx, task.ID)

	got, err := d.Tasks.GetByID(dbc, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.TaskCompleted {
		t.Fatalf("expected TaskCompleted, got %s", got.Status)
	}
	if got.TrackID == nil {
		t.Fatal("expected a track id to be persisted")
	}

	var track domain.Track
	if err := d.DB.WithContext(ctx).First(&track, "id = ?", *got.TrackID).Error; err != nil {
		t.Fatalf("fetch track: %v", err)
	}
	if len(track.TranscriptLines) != 1 {
		t.Fatalf("expected one fused transcript line, got %d", len(track.TranscriptLines))
	}
	if len(track.TranscriptLines[0].Words) != 2 {
		t.Fatalf("expected both words fused into the line, got %+v", track.TranscriptLines[0])
	}
}

func TestAssembleOneSkipsWhenMissingStems(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/assemble-missing-stems.wav")
	if err := d.Tasks.UpdateFields(dbc, task.ID, map[string]interface{}{
		"status": domain.TaskSubtitlesCompleted,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	d.assembleOne(ctx, task.ID)

	got, err := d.Tasks.GetByID(dbc, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.TaskSubtitlesCompleted {
		t.Fatalf("expected task to remain SubtitlesCompleted without stems, got %s", got.Status)
	}
	if got.TrackID != nil {
		t.Fatal("expected no track to be created without vocal/instrumental keys")
	}
}
