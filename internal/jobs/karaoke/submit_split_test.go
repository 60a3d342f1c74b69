package karaoke

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func TestSubmitOneSplitHappyPath(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/submit.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepSplit)

	d.ObjectStore = &fakeObjectStore{}
	splitterFake := &fakeSplitter{uploadFileID: "file-42", startTaskID: "provider-42"}
	d.Splitter = splitterFake

	d.submitOneSplit(ctx, step.ID)

	got, err := d.Steps.GetActiveForTaskKind(dbc, task.ID, domain.StepSplit)
	if err != nil {
		t.Fatalf("GetActiveForTaskKind: %v", err)
	}
	if got.Status != domain.StepInProcess {
		t.Fatalf("expected StepInProcess, got %s", got.Status)
	}
	if got.SubmittedAt == nil {
		t.Fatal("expected SubmittedAt to be set")
	}
	if got.Payload["provider_file_id"] != "file-42" {
		t.Fatalf("expected provider_file_id persisted, got %+v", got.Payload)
	}
}

func TestSubmitOneSplitDownloadFailureRecordsStepFailure(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/submit-fail.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepSplit)

	d.ObjectStore = &fakeObjectStore{downloadErr: errors.New("object not found")}
	d.Splitter = &fakeSplitter{}

	d.submitOneSplit(ctx, step.ID)

	got, err := d.Steps.GetActiveForTaskKind(dbc, task.ID, domain.StepSplit)
	if err != nil {
		t.Fatalf("GetActiveForTaskKind: %v", err)
	}
	if got.Status != domain.StepFailed {
		t.Fatalf("expected StepFailed after download error, got %s", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected Attempts=1, got %d", got.Attempts)
	}
}

func TestSubmitOneSplitSkipsAlreadySubmittedStep(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: d.DB}

	task := testutil.SeedTask(t, ctx, d.DB, "uploads/already-submitted.wav")
	step := testutil.SeedStep(t, ctx, d.DB, task.ID, domain.StepSplit)
	if err := d.Steps.UpdateFields(dbc, step.ID, map[string]interface{}{
		"payload": map[string]interface{}{"provider_file_id": "already-there"},
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	splitterFake := &fakeSplitter{}
	d.Splitter = splitterFake
	d.ObjectStore = &fakeObjectStore{}

	d.submitOneSplit(ctx, step.ID)

	if splitterFake.checkCalls != 0 {
		t.Fatal("Check should not be involved in submit")
	}
	got, err := d.Steps.GetActiveForTaskKind(dbc, task.ID, domain.StepSplit)
	if err != nil {
		t.Fatalf("GetActiveForTaskKind: %v", err)
	}
	if got.Payload["provider_file_id"] != "already-there" {
		t.Fatalf("expected existing payload untouched, got %+v", got.Payload)
	}
}
