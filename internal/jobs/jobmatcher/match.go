package jobmatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/clients/languagemodel"
	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// tickMatch implements spec §4.10. A provider error on one resume is logged
// and the loop moves on to the next resume; the vacancy is still marked
// processed once every active resume has been attempted.
func (d *Deps) tickMatch(ctx context.Context) {
	claim := dbctx.Context{Ctx: ctx, Tx: d.DB}
	vacancies, err := d.Vacancies.ListMatchCandidates(claim, d.Cfg.BatchSize)
	if err != nil {
		d.Log.Warn("match: claim failed", "error", err)
		return
	}
	for _, v := range vacancies {
		d.matchOneVacancy(ctx, v.ID)
	}
}

func (d *Deps) matchOneVacancy(ctx context.Context, vacancyID uuid.UUID) {
	var vacancy *domain.Vacancy
	var resumes []*domain.Resume

	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		v, e := d.Vacancies.LockByID(dbc, vacancyID)
		if e != nil {
			return e
		}
		if !v.DuplicateCheckSuccess || v.ProcessedAt != nil || v.OriginalVacancyID != nil {
			return nil
		}
		rs, e := d.Resumes.ListActive(dbc)
		if e != nil {
			return e
		}
		vacancy = v
		resumes = rs
		return nil
	})
	if err != nil {
		d.Log.Warn("match: lock failed", "vacancy_id", vacancyID, "error", err)
		return
	}
	if vacancy == nil {
		return
	}

	for _, r := range resumes {
		d.matchOneResume(ctx, vacancy, r)
	}

	d.markVacancyProcessed(ctx, vacancyID)
}

func (d *Deps) matchOneResume(ctx context.Context, vacancy *domain.Vacancy, resume *domain.Resume) {
	read := dbctx.Context{Ctx: ctx, Tx: d.DB}
	exists, err := d.Matches.Exists(read, vacancy.ID, resume.ID)
	if err != nil {
		d.Log.Warn("match: exists check failed", "vacancy_id", vacancy.ID, "resume_id", resume.ID, "error", err)
		return
	}
	if exists {
		return
	}

	var score int
	var comments []languagemodel.Comment
	if resume.SpecialistType != vacancy.SpecialistType {
		score = 1
		comments = []languagemodel.Comment{{Text: "kind mismatch", Score: 1}}
	} else {
		s, c, err := d.LanguageModel.Match(ctx, vacancy.Text, resume.Text)
		if err != nil {
			d.logMatchFailure(ctx, vacancy.ID, resume.ID, err)
			return
		}
		score = s
		comments = c
	}

	isRecommended := score >= d.Cfg.RecommendThreshold
	domainComments := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		domainComments = append(domainComments, domain.Comment{Text: c.Text, Score: c.Score})
	}

	err = d.withTx(ctx, func(dbc dbctx.Context) error {
		if _, err := d.Matches.Create(dbc, &domain.Match{
			VacancyID:     vacancy.ID,
			ResumeID:      resume.ID,
			Score:         score,
			IsRecommended: isRecommended,
			Comments:      datatypes.JSONSlice[domain.Comment](domainComments),
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return d.MatchLogs.Append(dbc, &domain.MatchLog{
			VacancyID: vacancy.ID,
			ResumeID:  resume.ID,
			Score:     &score,
			Data:      map[string]interface{}{"is_recommended": isRecommended},
		})
	})
	if err != nil {
		d.Log.Warn("match: persist failed", "vacancy_id", vacancy.ID, "resume_id", resume.ID, "error", err)
		return
	}

	if isRecommended && d.Notifier != nil {
		msg := fmt.Sprintf("Recommended match: vacancy %s <-> resume %s, score %d", vacancy.ID, resume.ID, score)
		_ = d.Notifier.SendNotification(ctx, msg)
	}
}

func (d *Deps) logMatchFailure(ctx context.Context, vacancyID, resumeID uuid.UUID, cause error) {
	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		return d.MatchLogs.Append(dbc, &domain.MatchLog{
			VacancyID: vacancyID,
			ResumeID:  resumeID,
			Data:      map[string]interface{}{"error": cause.Error()},
		})
	})
	if err != nil {
		d.Log.Warn("match: log failure failed", "vacancy_id", vacancyID, "resume_id", resumeID, "error", err)
	}
}

func (d *Deps) markVacancyProcessed(ctx context.Context, vacancyID uuid.UUID) {
	err := d.withTx(ctx, func(dbc dbctx.Context) error {
		v, e := d.Vacancies.LockByID(dbc, vacancyID)
		if e != nil {
			return e
		}
		if v.ProcessedAt != nil {
			return nil
		}
		now := time.Now()
		return d.Vacancies.UpdateFields(dbc, vacancyID, map[string]interface{}{"processed_at": now})
	})
	if err != nil {
		d.Log.Warn("match: mark processed failed", "vacancy_id", vacancyID, "error", err)
	}
}
