package jobmatcher_test

import (
	"context"
	"testing"

	jobmatcherrepo "github.com/yungbote/neurobridge-backend/internal/data/repos/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestDuplicateLogRepoAppend(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	vacancy := testutil.SeedVacancy(t, ctx, tx, "role")
	repo := jobmatcherrepo.NewDuplicateLogRepo(tx, log)

	isDup := true
	entry := &domain.DuplicateLog{
		VacancyID:            vacancy.ID,
		IsDuplicate:          &isDup,
		DuplicateOfVacancyID: testutil.PtrUUID(vacancy.ID),
		Data:                 datatypes.JSONMap{"probability": 9},
	}
	if err := repo.Append(dbc, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestMatchLogRepoAppend(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	vacancy := testutil.SeedVacancy(t, ctx, tx, "role")
	resume := testutil.SeedResume(t, ctx, tx, "candidate")
	repo := jobmatcherrepo.NewMatchLogRepo(tx, log)

	score := 7
	entry := &domain.MatchLog{
		VacancyID: vacancy.ID,
		ResumeID:  resume.ID,
		Score:     &score,
		Data:      datatypes.JSONMap{"comments": "ok"},
	}
	if err := repo.Append(dbc, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
}
