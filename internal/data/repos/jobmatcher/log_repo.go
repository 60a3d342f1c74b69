package jobmatcher

import (
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type DuplicateLogRepo interface {
	Append(dbc dbctx.Context, entry *domain.DuplicateLog) error
}

type duplicateLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDuplicateLogRepo(db *gorm.DB, baseLog *logger.Logger) DuplicateLogRepo {
	return &duplicateLogRepo{db: db, log: baseLog.With("repo", "DuplicateLogRepo")}
}

func (r *duplicateLogRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *duplicateLogRepo) Append(dbc dbctx.Context, entry *domain.DuplicateLog) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Create(entry).Error
}

type MatchLogRepo interface {
	Append(dbc dbctx.Context, entry *domain.MatchLog) error
}

type matchLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchLogRepo(db *gorm.DB, baseLog *logger.Logger) MatchLogRepo {
	return &matchLogRepo{db: db, log: baseLog.With("repo", "MatchLogRepo")}
}

func (r *matchLogRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *matchLogRepo) Append(dbc dbctx.Context, entry *domain.MatchLog) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Create(entry).Error
}
