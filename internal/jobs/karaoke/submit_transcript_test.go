package karaoke

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func TestSubmitOneTranscriptNotReadyWithoutVocalKey(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/no-vocal-key.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepTranscript)

	fake := &fakeASR{}
	d.ASR = fake
	d.ObjectStore = &fakeObjectStore{}

	d.submitOneTranscript(ctx, step.ID)

	if fake.submitCalls != 0 || fake.getCalls != 0 {
		t.Fatal("expected no ASR interaction without a vocal key")
	}
	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepInit {
		t.Fatalf("expected step to remain StepInit while not ready, got %s", got.Status)
	}
}

func TestSubmitOneTranscriptHappyPath(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/with-vocal-key.wav")
	vocalKey := "keys/vocal.wav"
	if err := d.Tasks.UpdateFields(dbc, task.ID, map[string]interface{}{"vocal_key": vocalKey}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepTranscript)

	fakeASRClient := &fakeASR{submitID: "transcript-99"}
	d.ASR = fakeASRClient
	d.ObjectStore = &fakeObjectStore{}

	d.submitOneTranscript(ctx, step.ID)

	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepInProcess {
		t.Fatalf("expected StepInProcess, got %s", got.Status)
	}
	if got.Payload["transcript_id"] != "transcript-99" {
		t.Fatalf("expected transcript_id persisted, got %+v", got.Payload)
	}
	if got.SubmittedAt == nil {
		t.Fatal("expected SubmittedAt to be set")
	}
}

func TestSubmitOneTranscriptASRFailureRecordsStepFailure(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/asr-failure.wav")
	vocalKey := "keys/vocal.wav"
	if err := d.Tasks.UpdateFields(dbc, task.ID, map[string]interface{}{"vocal_key": vocalKey}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepTranscript)

	d.ASR = &fakeASR{submitErr: errors.New("provider unavailable")}
	d.ObjectStore = &fakeObjectStore{}

	d.submitOneTranscript(ctx, step.ID)

	got, err := d.Steps.LockByID(dbc, step.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Status != domain.StepFailed {
		t.Fatalf("expected StepFailed, got %s", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected Attempts=1, got %d", got.Attempts)
	}
}
