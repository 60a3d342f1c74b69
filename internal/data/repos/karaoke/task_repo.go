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

type TaskRepo interface {
	Create(dbc dbctx.Context, task *domain.Task) (*domain.Task, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Task, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	// ListByStatusWithoutStep returns up to limit tasks in the given status
	// with no Step row of kind at all (used by the Init* operations).
	ListByStatusWithoutStep(dbc dbctx.Context, status domain.TaskStatus, kind domain.StepKind, limit int) ([]*domain.Task, error)

	// ListByStatus returns up to limit tasks in the given status, oldest first.
	// Used by Assemble, whose precondition is purely Task.Status == subtitles_completed.
	ListByStatus(dbc dbctx.Context, status domain.TaskStatus, limit int) ([]*domain.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *taskRepo) Create(dbc dbctx.Context, task *domain.Task) (*domain.Task, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// LockByID locks a single Task row FOR UPDATE within the caller's transaction.
// Callers must already be inside a transaction (dbc.Tx != nil).
func (r *taskRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *taskRepo) ListByStatusWithoutStep(dbc dbctx.Context, status domain.TaskStatus, kind domain.StepKind, limit int) ([]*domain.Task, error) {
	var out []*domain.Task
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("status = ?", status).
		Where("NOT EXISTS (SELECT 1 FROM task_steps ts WHERE ts.task_id = tasks.id AND ts.kind = ?)", kind).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) ListByStatus(dbc dbctx.Context, status domain.TaskStatus, limit int) ([]*domain.Task, error) {
	var out []*domain.Task
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
