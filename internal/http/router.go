package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-backend/internal/http/middleware"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// RouterConfig wires the minimal ingestion surface: a health check and the
// three row-creating endpoints the pipeline's phase workers pick up from.
type RouterConfig struct {
	Log              *logger.Logger
	HealthHandler    *httpH.HealthHandler
	IngestionHandler *httpH.IngestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	if cfg.IngestionHandler != nil {
		r.POST("/tasks", cfg.IngestionHandler.CreateTask)
		r.POST("/vacancies", cfg.IngestionHandler.CreateVacancy)
		r.POST("/resumes", cfg.IngestionHandler.CreateResume)
	}

	return r
}
