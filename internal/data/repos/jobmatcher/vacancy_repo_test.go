package jobmatcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	jobmatcherrepo "github.com/yungbote/neurobridge-backend/internal/data/repos/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func TestVacancyRepoListDuplicateCandidates(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := jobmatcherrepo.NewVacancyRepo(tx, log)
	unchecked := testutil.SeedVacancy(t, ctx, tx, "backend role")
	checked := testutil.SeedVacancy(t, ctx, tx, "frontend role")
	now := time.Now()
	if err := repo.UpdateFields(dbc, checked.ID, map[string]interface{}{
		"duplicate_checked_at": now,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	out, err := repo.ListDuplicateCandidates(dbc, 10)
	if err != nil {
		t.Fatalf("ListDuplicateCandidates: %v", err)
	}
	ids := map[string]bool{}
	for _, v := range out {
		ids[v.ID.String()] = true
	}
	if !ids[unchecked.ID.String()] {
		t.Fatalf("expected never-checked vacancy in candidate list: %+v", out)
	}
	if ids[checked.ID.String()] {
		t.Fatalf("expected already-checked vacancy excluded: %+v", out)
	}
}

func TestVacancyRepoListDuplicateComparisonSet(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := jobmatcherrepo.NewVacancyRepo(tx, log)

	base := time.Now().Add(-time.Hour)

	// within the 2h window, same specialist/grade, already duplicate-checked: in scope.
	inWindow := testutil.SeedVacancy(t, ctx, tx, "in window")
	mustUpdate(t, repo, dbc, inWindow.ID, map[string]interface{}{
		"duplicate_check_success": true,
		"created_at":              base.Add(-30 * time.Minute),
	})

	// outside the 2h window: excluded.
	tooOld := testutil.SeedVacancy(t, ctx, tx, "too old")
	mustUpdate(t, repo, dbc, tooOld.ID, map[string]interface{}{
		"duplicate_check_success": true,
		"created_at":              base.Add(-3 * time.Hour),
	})

	// different specialist type: excluded.
	wrongSpecialist := testutil.SeedVacancy(t, ctx, tx, "frontend role")
	mustUpdate(t, repo, dbc, wrongSpecialist.ID, map[string]interface{}{
		"duplicate_check_success": true,
		"specialist_type":         domain.SpecialistFrontend,
		"created_at":              base.Add(-30 * time.Minute),
	})

	// not yet duplicate-check-successful: excluded.
	notChecked := testutil.SeedVacancy(t, ctx, tx, "unchecked")
	mustUpdate(t, repo, dbc, notChecked.ID, map[string]interface{}{
		"created_at": base.Add(-30 * time.Minute),
	})

	// has an original_vacancy_id set (already marked a duplicate): excluded.
	alreadyDup := testutil.SeedVacancy(t, ctx, tx, "already a duplicate")
	mustUpdate(t, repo, dbc, alreadyDup.ID, map[string]interface{}{
		"duplicate_check_success": true,
		"original_vacancy_id":     inWindow.ID,
		"created_at":              base.Add(-30 * time.Minute),
	})

	subject := testutil.SeedVacancy(t, ctx, tx, "subject vacancy")
	mustUpdate(t, repo, dbc, subject.ID, map[string]interface{}{
		"created_at": base,
	})
	subject, err := repo.GetByID(dbc, subject.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	out, err := repo.ListDuplicateComparisonSet(dbc, subject, 2*time.Hour)
	if err != nil {
		t.Fatalf("ListDuplicateComparisonSet: %v", err)
	}
	ids := map[string]bool{}
	for _, v := range out {
		ids[v.ID.String()] = true
	}
	if !ids[inWindow.ID.String()] {
		t.Fatalf("expected in-window comparable vacancy present: %+v", out)
	}
	if ids[tooOld.ID.String()] {
		t.Fatalf("expected vacancy outside the 2h window excluded: %+v", out)
	}
	if ids[wrongSpecialist.ID.String()] {
		t.Fatalf("expected mismatched specialist_type excluded: %+v", out)
	}
	if ids[notChecked.ID.String()] {
		t.Fatalf("expected non-duplicate-checked vacancy excluded: %+v", out)
	}
	if ids[alreadyDup.ID.String()] {
		t.Fatalf("expected a vacancy already marked as a duplicate excluded: %+v", out)
	}
}

func TestVacancyRepoListMatchCandidates(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := jobmatcherrepo.NewVacancyRepo(tx, log)

	ready := testutil.SeedVacancy(t, ctx, tx, "ready to match")
	mustUpdate(t, repo, dbc, ready.ID, map[string]interface{}{
		"duplicate_check_success": true,
	})

	processed := testutil.SeedVacancy(t, ctx, tx, "already processed")
	now := time.Now()
	mustUpdate(t, repo, dbc, processed.ID, map[string]interface{}{
		"duplicate_check_success": true,
		"processed_at":            now,
	})

	out, err := repo.ListMatchCandidates(dbc, 10)
	if err != nil {
		t.Fatalf("ListMatchCandidates: %v", err)
	}
	ids := map[string]bool{}
	for _, v := range out {
		ids[v.ID.String()] = true
	}
	if !ids[ready.ID.String()] {
		t.Fatalf("expected unprocessed, duplicate-checked vacancy listed: %+v", out)
	}
	if ids[processed.ID.String()] {
		t.Fatalf("expected already-processed vacancy excluded: %+v", out)
	}
}

func mustUpdate(t *testing.T, repo jobmatcherrepo.VacancyRepo, dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) {
	t.Helper()
	if err := repo.UpdateFields(dbc, id, updates); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
}
