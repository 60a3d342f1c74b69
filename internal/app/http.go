package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-backend/internal/http"
	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Ingestion *httpH.IngestionHandler
}

func wireHandlers(log *logger.Logger, repos Repos, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Ingestion: httpH.NewIngestionHandler(
			log,
			clients.ObjectStore,
			repos.Tasks,
			repos.Vacancies,
			repos.Resumes,
		),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		HealthHandler:    handlers.Health,
		IngestionHandler: handlers.Ingestion,
	})
}
