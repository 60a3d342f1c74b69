package karaoke

import (
	"context"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/clients/asr"
	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func seedInProcessTranscriptStep(t *testing.T, d *Deps, ctx context.Context, transcriptID string) (*domain.Task, *domain.Step) {
	t.Helper()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}
	task := testutil.SeedTask(t, ctx, d.DB, "uploads/transcript.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepTranscript)
	if err := d.Steps.UpdateFields(dbc, step.ID, map[string]interface{}{
		"status":  domain.StepInProcess,
		"payload": map[string]interface{}{"transcript_id": transcriptID},
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	return task, step
}

func TestPollOneTranscriptQueuedIsNoOp(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	_, step := seedInProcessTranscriptStep(t, d, ctx, "transcript-1")
	fake := &fakeASR{getResult: asr.GetResult{Status: asr.StatusQueued}}
	d.ASR = fake

	d.pollOneTranscript(ctx, step.ID)

	if fake.getCalls != 1 {
		t.Fatalf("expected exactly one ASR.Get call, got %d", fake.getCalls)
	}
	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepInProcess {
		t.Fatalf("expected step to remain in process on queued result, got %s", got.Status)
	}
	if got.Attempts != 0 {
		t.Fatalf("expected Attempts to stay at 0 while not-ready, got %d", got.Attempts)
	}
}

func TestPollOneTranscriptProcessingIsNoOp(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	_, step := seedInProcessTranscriptStep(t, d, ctx, "transcript-1")
	d.ASR = &fakeASR{getResult: asr.GetResult{Status: asr.StatusProcessing}}

	d.pollOneTranscript(ctx, step.ID)

	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepInProcess || got.Attempts != 0 {
		t.Fatalf("expected no mutation while processing, got status=%s attempts=%d", got.Status, got.Attempts)
	}
}

func TestPollOneTranscriptCompletedPersistsWordsAndAdvancesTask(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task, step := seedInProcessTranscriptStep(t, d, ctx, "transcript-1")
	words := []domain.Word{{Text: "hello", StartMs: 0, EndMs: 300, Confidence: 0.9}}
	d.ASR = &fakeASR{getResult: asr.GetResult{Status: asr.StatusCompleted, Words: words}}

	d.pollOneTranscript(ctx, step.ID)

	gotStep, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID step: %v", err)
	}
	if gotStep.Status != domain.StepCompleted {
		t.Fatalf("expected StepCompleted, got %s", gotStep.Status)
	}

	gotTask, err := d.Tasks.GetByID(dbc, task.ID)
	if err != nil {
		t.Fatalf("GetByID task: %v", err)
	}
	if gotTask.Status != domain.TaskTranscriptCompleted {
		t.Fatalf("expected TaskTranscriptCompleted, got %s", gotTask.Status)
	}
	if len(gotTask.Words) != 1 || gotTask.Words[0].Text != "hello" {
		t.Fatalf("expected words persisted on the task, got %+v", gotTask.Words)
	}
}

func TestPollOneTranscriptErrorAppliesRetryPolicy(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	_, step := seedInProcessTranscriptStep(t, d, ctx, "transcript-1")
	d.ASR = &fakeASR{getResult: asr.GetResult{Status: asr.StatusError, Error: "provider choked"}}

	d.pollOneTranscript(ctx, step.ID)

	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepFailed {
		t.Fatalf("expected StepFailed after a provider error, got %s", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected Attempts=1, got %d", got.Attempts)
	}
}

func TestPollOneTranscriptSkipsWhenNoTranscriptIDYet(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/no-transcript-id.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepTranscript)
	if err := d.Steps.UpdateFields(dbc, step.ID, map[string]interface{}{"status": domain.StepInProcess}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	fake := &fakeASR{}
	d.ASR = fake

	d.pollOneTranscript(ctx, step.ID)

	if fake.getCalls != 0 {
		t.Fatal("expected ASR.Get not to be called before a transcript id is recorded")
	}
}
