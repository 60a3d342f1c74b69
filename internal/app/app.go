package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/data/db"
	"github.com/yungbote/neurobridge-backend/internal/jobs/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/jobs/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// App wires the two pipelines' phase workers and the thin ingestion HTTP
// surface that feeds them (spec §3: "the HTTP layer (out of scope) creates a
// Task row in state CREATED ... workers discover work by scanning").
type App struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Router  *gin.Engine
	Cfg     Config
	Repos   Repos
	Clients Clients

	karaokeDeps    *karaoke.Deps
	jobmatcherDeps *jobmatcher.Deps
	cancel         context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init clients: %w", err)
	}

	handlerset := wireHandlers(log, reposet, clients)
	router := wireRouter(log, handlerset)

	karaokeDeps := &karaoke.Deps{
		DB:  theDB,
		Log: log.With("pipeline", "karaoke"),
		Cfg: karaoke.ConfigFromEnv(),

		Tasks:    reposet.Tasks,
		Steps:    reposet.Steps,
		StepLogs: reposet.StepLogs,
		Tracks:   reposet.Tracks,

		ObjectStore: clients.ObjectStore,
		Splitter:    clients.Splitter,
		ASR:         clients.ASR,
		Aligner:     clients.Aligner,
		Notifier:    clients.Notifier,
	}

	jobmatcherDeps := &jobmatcher.Deps{
		DB:  theDB,
		Log: log.With("pipeline", "jobmatcher"),
		Cfg: jobmatcher.ConfigFromEnv(),

		Vacancies:     reposet.Vacancies,
		Resumes:       reposet.Resumes,
		Matches:       reposet.Matches,
		DuplicateLogs: reposet.DuplicateLogs,
		MatchLogs:     reposet.MatchLogs,

		LanguageModel: clients.LanguageModel,
		Notifier:      clients.Notifier,
	}

	return &App{
		Log:     log,
		DB:      theDB,
		Router:  router,
		Cfg:     cfg,
		Repos:   reposet,
		Clients: clients,

		karaokeDeps:    karaokeDeps,
		jobmatcherDeps: jobmatcherDeps,
	}, nil
}

// Start launches every phase worker's timer loop (spec §3: "each worker runs
// on its own timer loop; there is no central scheduler").
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.karaokeDeps.StartAll(ctx)
	a.jobmatcherDeps.StartAll(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.HTTPAddr
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
