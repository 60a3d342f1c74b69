package karaoke

import (
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type StepLogRepo interface {
	Append(dbc dbctx.Context, log *domain.StepLog) error
}

type stepLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepLogRepo(db *gorm.DB, baseLog *logger.Logger) StepLogRepo {
	return &stepLogRepo{db: db, log: baseLog.With("repo", "StepLogRepo")}
}

func (r *stepLogRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *stepLogRepo) Append(dbc dbctx.Context, entry *domain.StepLog) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Create(entry).Error
}
