package app

import (
	"gorm.io/gorm"

	karaokerepos "github.com/yungbote/neurobridge-backend/internal/data/repos/karaoke"
	jobmatcherrepos "github.com/yungbote/neurobridge-backend/internal/data/repos/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Repos struct {
	Tasks    karaokerepos.TaskRepo
	Steps    karaokerepos.StepRepo
	StepLogs karaokerepos.StepLogRepo
	Tracks   karaokerepos.TrackRepo

	Vacancies     jobmatcherrepos.VacancyRepo
	Resumes       jobmatcherrepos.ResumeRepo
	Matches       jobmatcherrepos.MatchRepo
	DuplicateLogs jobmatcherrepos.DuplicateLogRepo
	MatchLogs     jobmatcherrepos.MatchLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tasks:    karaokerepos.NewTaskRepo(db, log),
		Steps:    karaokerepos.NewStepRepo(db, log),
		StepLogs: karaokerepos.NewStepLogRepo(db, log),
		Tracks:   karaokerepos.NewTrackRepo(db, log),

		Vacancies:     jobmatcherrepos.NewVacancyRepo(db, log),
		Resumes:       jobmatcherrepos.NewResumeRepo(db, log),
		Matches:       jobmatcherrepos.NewMatchRepo(db, log),
		DuplicateLogs: jobmatcherrepos.NewDuplicateLogRepo(db, log),
		MatchLogs:     jobmatcherrepos.NewMatchLogRepo(db, log),
	}
}
