package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	jobmatcher "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	karaoke "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
)

// SeedTask creates a Task row in TaskCreated, ready for the SPLIT worker to
// pick up.
func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, originalKey string) *karaoke.Task {
	tb.Helper()
	t := &karaoke.Task{
		ID:          uuid.New(),
		OriginalKey: originalKey,
		Language:    "en",
		Status:      karaoke.TaskCreated,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

// SeedStep creates a Step row for the given task/kind, in StepInit with zero
// attempts.
func SeedStep(tb testing.TB, ctx context.Context, tx *gorm.DB, taskID uuid.UUID, kind karaoke.StepKind) *karaoke.Step {
	tb.Helper()
	s := &karaoke.Step{
		ID:      uuid.New(),
		TaskID:  taskID,
		Kind:    kind,
		Status:  karaoke.StepInit,
		Payload: datatypes.JSONMap{},
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed step: %v", err)
	}
	return s
}

// SeedTrack creates a Track row as the ASSEMBLE phase would, once a Task
// reaches TaskCompleted.
func SeedTrack(tb testing.TB, ctx context.Context, tx *gorm.DB, originalKey string) *karaoke.Track {
	tb.Helper()
	tr := &karaoke.Track{
		ID:              uuid.New(),
		OriginalKey:     originalKey,
		VocalKey:        originalKey + ".vocal",
		InstrumentalKey: originalKey + ".instrumental",
		Language:        "en",
	}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed track: %v", err)
	}
	return tr
}

// SeedVacancy creates a Vacancy row with a minimal, already-extracted
// attribute set. The row is inserted before returning; tests that need
// specific values (e.g. duplicate detection) change the stored row afterwards,
// for example with VacancyRepo.UpdateFields.
func SeedVacancy(tb testing.TB, ctx context.Context, tx *gorm.DB, text string) *jobmatcher.Vacancy {
	tb.Helper()
	v := &jobmatcher.Vacancy{
		ID:                 uuid.New(),
		Source:             jobmatcher.SourceManual,
		Text:               text,
		SpecialistType:     jobmatcher.SpecialistBackend,
		WorkFormat:         jobmatcher.WorkFormatRemote,
		Grade:              jobmatcher.GradeMiddle,
		ExperienceRequired: 2,
		Salary:             datatypes.NewJSONType[*jobmatcher.Salary](nil),
		Technologies:       datatypes.JSONSlice[jobmatcher.Technology]{},
		Skills:             datatypes.JSONSlice[jobmatcher.Skill]{},
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed vacancy: %v", err)
	}
	return v
}

// SeedResume creates a Resume row, active by default.
func SeedResume(tb testing.TB, ctx context.Context, tx *gorm.DB, text string) *jobmatcher.Resume {
	tb.Helper()
	r := &jobmatcher.Resume{
		ID:             uuid.New(),
		Text:           text,
		SpecialistType: jobmatcher.SpecialistBackend,
		Grade:          jobmatcher.GradeMiddle,
		Experience:     2,
		Salary:         datatypes.NewJSONType[*jobmatcher.Salary](nil),
		Technologies:   datatypes.JSONSlice[jobmatcher.TechnologyForResume]{},
		Skills:         datatypes.JSONSlice[jobmatcher.SkillForResume]{},
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resume: %v", err)
	}
	return r
}

// SeedMatch creates a Match row linking a vacancy and a resume.
func SeedMatch(tb testing.TB, ctx context.Context, tx *gorm.DB, vacancyID, resumeID uuid.UUID, score int, recommended bool) *jobmatcher.Match {
	tb.Helper()
	m := &jobmatcher.Match{
		ID:            uuid.New(),
		VacancyID:     vacancyID,
		ResumeID:      resumeID,
		Score:         score,
		IsRecommended: recommended,
		Comments:      datatypes.JSONSlice[jobmatcher.Comment]{},
		CreatedAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed match: %v", err)
	}
	return m
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
