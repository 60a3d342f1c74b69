package jobmatcher

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type ResumeRepo interface {
	Create(dbc dbctx.Context, res *domain.Resume) (*domain.Resume, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Resume, error)
	ListActive(dbc dbctx.Context) ([]*domain.Resume, error)
}

type resumeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResumeRepo(db *gorm.DB, baseLog *logger.Logger) ResumeRepo {
	return &resumeRepo{db: db, log: baseLog.With("repo", "ResumeRepo")}
}

func (r *resumeRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *resumeRepo) Create(dbc dbctx.Context, res *domain.Resume) (*domain.Resume, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resumeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Resume, error) {
	var res domain.Resume
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resumeRepo) ListActive(dbc dbctx.Context) ([]*domain.Resume, error) {
	var out []*domain.Resume
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("is_active = true").
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
