package db

import (
	"fmt"

	"gorm.io/gorm"

	jobmatcher "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	karaoke "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Karaoke pipeline
		&karaoke.Task{},
		&karaoke.Step{},
		&karaoke.StepLog{},
		&karaoke.Track{},

		// Vacancy/resume matcher
		&jobmatcher.Vacancy{},
		&jobmatcher.Resume{},
		&jobmatcher.Match{},
		&jobmatcher.DuplicateLog{},
		&jobmatcher.MatchLog{},
	)
}

// EnsureIndexes creates the composite indexes the claim queries rely on that
// GORM struct tags alone don't express.
func EnsureIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_task_steps_task_kind_created
		ON task_steps (task_id, kind, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_task_steps_task_kind_created: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_task_steps_kind_status_attempts
		ON task_steps (kind, status, attempts);
	`).Error; err != nil {
		return fmt.Errorf("create idx_task_steps_kind_status_attempts: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_vacancies_specialist_grade_created
		ON vacancies (specialist_type, grade, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_vacancies_specialist_grade_created: %w", err)
	}

	return nil
}
