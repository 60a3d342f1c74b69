package jobmatcher

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type VacancyRepo interface {
	Create(dbc dbctx.Context, v *domain.Vacancy) (*domain.Vacancy, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Vacancy, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Vacancy, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	// ListDuplicateCandidates returns vacancies never duplicate-checked yet,
	// oldest first.
	ListDuplicateCandidates(dbc dbctx.Context, limit int) ([]*domain.Vacancy, error)

	// ListDuplicateComparisonSet returns the candidate set C for vacancy v per
	// spec: matching specialist_type+grade, duplicate_check_success=true,
	// original_vacancy_id is null, created in the 2h window preceding
	// v.CreatedAt, strictly earlier than v, oldest first.
	ListDuplicateComparisonSet(dbc dbctx.Context, v *domain.Vacancy, window time.Duration) ([]*domain.Vacancy, error)

	// ListMatchCandidates returns vacancies ready for the Match worker:
	// duplicate_check_success=true, processed_at is null, original_vacancy_id
	// is null.
	ListMatchCandidates(dbc dbctx.Context, limit int) ([]*domain.Vacancy, error)
}

type vacancyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVacancyRepo(db *gorm.DB, baseLog *logger.Logger) VacancyRepo {
	return &vacancyRepo{db: db, log: baseLog.With("repo", "VacancyRepo")}
}

func (r *vacancyRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *vacancyRepo) Create(dbc dbctx.Context, v *domain.Vacancy) (*domain.Vacancy, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vacancyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Vacancy, error) {
	var v domain.Vacancy
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vacancyRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Vacancy, error) {
	var v domain.Vacancy
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vacancyRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Vacancy{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *vacancyRepo) ListDuplicateCandidates(dbc dbctx.Context, limit int) ([]*domain.Vacancy, error) {
	var out []*domain.Vacancy
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("duplicate_checked_at IS NULL").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *vacancyRepo) ListDuplicateComparisonSet(dbc dbctx.Context, v *domain.Vacancy, window time.Duration) ([]*domain.Vacancy, error) {
	windowStart := v.CreatedAt.Add(-window)
	var out []*domain.Vacancy
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("specialist_type = ?", v.SpecialistType).
		Where("grade = ?", v.Grade).
		Where("duplicate_check_success = true").
		Where("original_vacancy_id IS NULL").
		Where("created_at >= ? AND created_at < ?", windowStart, v.CreatedAt).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *vacancyRepo) ListMatchCandidates(dbc dbctx.Context, limit int) ([]*domain.Vacancy, error) {
	var out []*domain.Vacancy
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("duplicate_check_success = true").
		Where("processed_at IS NULL").
		Where("original_vacancy_id IS NULL").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
