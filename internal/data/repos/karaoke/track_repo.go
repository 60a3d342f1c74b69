package karaoke

import (
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type TrackRepo interface {
	Create(dbc dbctx.Context, track *domain.Track) (*domain.Track, error)
}

type trackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackRepo(db *gorm.DB, baseLog *logger.Logger) TrackRepo {
	return &trackRepo{db: db, log: baseLog.With("repo", "TrackRepo")}
}

func (r *trackRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *trackRepo) Create(dbc dbctx.Context, track *domain.Track) (*domain.Track, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(track).Error; err != nil {
		return nil, err
	}
	return track, nil
}
