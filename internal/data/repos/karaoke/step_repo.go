package karaoke

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type StepRepo interface {
	Create(dbc dbctx.Context, step *domain.Step) (*domain.Step, error)
	GetActiveForTaskKind(dbc dbctx.Context, taskID uuid.UUID, kind domain.StepKind) (*domain.Step, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Step, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	// ListSubmitCandidates returns Steps of kind ready to be submitted to a
	// provider: not yet submitted (SubmittedAt nil), status in (init, failed),
	// attempts below the policy's max.
	ListSubmitCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, limit int) ([]*domain.Step, error)

	// ListPollCandidates returns Steps of kind already submitted and due for a
	// poll: status in (in_process, failed), attempts below max, and either
	// never polled or last polled more than staleFor ago.
	ListPollCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, staleFor time.Duration, limit int) ([]*domain.Step, error)

	// ListFetchCandidates returns Steps of kind ready for a fused submit+poll
	// operation (FetchSubtitles): status in (init, in_process, failed),
	// attempts below max. Unlike ListSubmitCandidates/ListPollCandidates there
	// is no submitted_at split, since the operation is a single round trip.
	ListFetchCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, limit int) ([]*domain.Step, error)
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return &stepRepo{db: db, log: baseLog.With("repo", "StepRepo")}
}

func (r *stepRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *stepRepo) Create(dbc dbctx.Context, step *domain.Step) (*domain.Step, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(step).Error; err != nil {
		return nil, err
	}
	return step, nil
}

func (r *stepRepo) GetActiveForTaskKind(dbc dbctx.Context, taskID uuid.UUID, kind domain.StepKind) (*domain.Step, error) {
	var s domain.Step
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("task_id = ? AND kind = ?", taskID, kind).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stepRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Step, error) {
	var s domain.Step
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stepRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Step{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *stepRepo) ListSubmitCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, limit int) ([]*domain.Step, error) {
	var out []*domain.Step
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("kind = ?", kind).
		Where("status IN ?", []domain.StepStatus{domain.StepInit, domain.StepFailed}).
		Where("attempts < ?", maxAttempts).
		Where("submitted_at IS NULL").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stepRepo) ListFetchCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, limit int) ([]*domain.Step, error) {
	var out []*domain.Step
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("kind = ?", kind).
		Where("status IN ?", []domain.StepStatus{domain.StepInit, domain.StepInProcess, domain.StepFailed}).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stepRepo) ListPollCandidates(dbc dbctx.Context, kind domain.StepKind, maxAttempts int, staleFor time.Duration, limit int) ([]*domain.Step, error) {
	threshold := time.Now().Add(-staleFor)
	var out []*domain.Step
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("kind = ?", kind).
		Where("status IN ?", []domain.StepStatus{domain.StepInProcess, domain.StepFailed}).
		Where("attempts < ?", maxAttempts).
		Where("submitted_at IS NOT NULL").
		Where("processed_at IS NULL OR processed_at < ?", threshold).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
