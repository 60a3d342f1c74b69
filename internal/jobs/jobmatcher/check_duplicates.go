package jobmatcher

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickCheckDuplicates implements spec §4.9. A provider error resolves the
// vacancy with duplicate_check_success=false rather than retrying it, to cap
// provider spend.
func (d *Deps) tickCheckDuplicates(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	vacancies, err := d.Vacancies.ListDuplicateCandidates(claim, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("check_duplicates: claim failed", "error", err)
		return
	}
	for _, v := range vacancies {
		d.checkOneVacancy(ctx, v.ID)
	}
}

func (d *Deps) checkOneVacancy(ctx context.Context, vacancyID uuid.UUID) {
	var vacancy *domain.Vacancy
	var candidates []*domain.Vacancy

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		v, e := d.Vacancies.LockByID(dbc, vacancyID)
		if e != nil {
			return e
		}
		if v.DuplicateCheckedAt != nil {
			return nil
		}
		cs, e := d.Vacancies.ListDuplicateComparisonSet(dbc, v, d.Cfg.DuplicateWindow)
		if e != nil {
			return e
		}
		vacancy = v
		candidates = cs
		return nil
	})
	if err != nil {
		d.Log.Warn("check_duplicates: lock failed", "vacancy_id", vacancyID, "error", err)
		return
	}
	if vacancy == nil {
		return
	}

	var originalID *uuid.UUID
	success := true
	var lastScore int
	var providerErr error

	for _, c := range candidates {
		score, err := d.LanguageModel.CheckDuplicate(ctx, vacancy.Text, c.Text)
		if err != nil {
			success = false
			providerErr = err
			break
		}
		lastScore = score
		if score >= d.Cfg.DuplicateThreshold {
			id := c.ID
			originalID = &id
			break
		}
	}

	d.persistDuplicateResult(ctx, vacancyID, originalID, success, lastScore, providerErr)
}

func (d *Deps) persistDuplicateResult(ctx context.Context, vacancyID uuid.UUID, originalID *uuid.UUID, success bool, lastScore int, providerErr error) {
	isDuplicate := originalID != nil

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		v, e := d.Vacancies.LockByID(dbc, vacancyID)
		if e != nil {
			return e
		}
		if v.DuplicateCheckedAt != nil {
			return nil
		}

		updates := map[string]interface{}{
			"duplicate_checked_at":    time.Now(),
			"duplicate_check_success": success,
		}
		if originalID != nil {
			updates["original_vacancy_id"] = *originalID
		}
		if err := d.Vacancies.UpdateFields(dbc, vacancyID, updates); err != nil {
			return err
		}

		data := map[string]interface{}{"last_score": lastScore}
		if providerErr != nil {
			data["error"] = providerErr.Error()
		}
		return d.DuplicateLogs.Append(dbc, &domain.DuplicateLog{
			VacancyID:            vacancyID,
			IsDuplicate:          &isDuplicate,
			DuplicateOfVacancyID: originalID,
			Data:                 data,
		})
	})
	if err != nil {
		d.Log.Warn("check_duplicates: persist result failed", "vacancy_id", vacancyID, "error", err)
	}
}
