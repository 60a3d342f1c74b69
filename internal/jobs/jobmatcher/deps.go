package jobmatcher

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/clients/languagemodel"
	"github.com/yungbote/neurobridge-backend/internal/clients/notifier"
	repos "github.com/yungbote/neurobridge-backend/internal/data/repos/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Deps bundles every repo and provider the duplicate detector and matcher
// workers need.
type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger
	Cfg Config

	Vacancies     repos.VacancyRepo
	Resumes       repos.ResumeRepo
	Matches       repos.MatchRepo
	DuplicateLogs repos.DuplicateLogRepo
	MatchLogs     repos.MatchLogRepo

	LanguageModel languagemodel.LanguageModel
	Notifier      notifier.Notifier
}

// StartAll launches the duplicate detector and matcher loops against ctx.
func (d *Deps) StartAll(ctx context.Context) {
	newPhaseRunner("CheckDuplicates", d.Log, d.Cfg.TickInterval, d.tickCheckDuplicates).Start(ctx)
	newPhaseRunner("Match", d.Log, d.Cfg.TickInterval, d.tickMatch).Start(ctx)
}

func (d *Deps) withTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
