package jobmatcher

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type MatchRepo interface {
	Create(dbc dbctx.Context, m *domain.Match) (*domain.Match, error)
	Exists(dbc dbctx.Context, vacancyID, resumeID uuid.UUID) (bool, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (r *matchRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *matchRepo) Create(dbc dbctx.Context, m *domain.Match) (*domain.Match, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *matchRepo) Exists(dbc dbctx.Context, vacancyID, resumeID uuid.UUID) (bool, error) {
	var m domain.Match
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("vacancy_id = ? AND resume_id = ?", vacancyID, resumeID).
		First(&m).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
