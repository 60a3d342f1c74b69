package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-backend/internal/clients/objectstore"
	karaokerepos "github.com/yungbote/neurobridge-backend/internal/data/repos/karaoke"
	jobmatcherrepos "github.com/yungbote/neurobridge-backend/internal/data/repos/jobmatcher"
	domainkaraoke "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	domainjobmatcher "github.com/yungbote/neurobridge-backend/internal/domain/jobmatcher"
	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// IngestionHandler is the thin, un-orchestrating entry point the spec treats
// as an external collaborator: it only creates rows in CREATED/unprocessed
// state and lets the phase workers take it from there.
type IngestionHandler struct {
	log    *logger.Logger
	store  objectstore.ObjectStore
	tasks  karaokerepos.TaskRepo
	vacancies jobmatcherrepos.VacancyRepo
	resumes   jobmatcherrepos.ResumeRepo
}

func NewIngestionHandler(
	log *logger.Logger,
	store objectstore.ObjectStore,
	tasks karaokerepos.TaskRepo,
	vacancies jobmatcherrepos.VacancyRepo,
	resumes jobmatcherrepos.ResumeRepo,
) *IngestionHandler {
	return &IngestionHandler{
		log:       log.With("handler", "IngestionHandler"),
		store:     store,
		tasks:     tasks,
		vacancies: vacancies,
		resumes:   resumes,
	}
}

// POST /tasks — multipart upload of the original audio track. Creates a Task
// in CREATED; InitSplit picks it up from there.
func (h *IngestionHandler) CreateTask(c *gin.Context) {
	lang := strings.TrimSpace(c.Request.FormValue("language"))
	if lang == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_language", nil)
		return
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_audio_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "cannot_open_audio_file", err)
		return
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	contentType := http.DetectContentType(buf[:n])
	data, err := io.ReadAll(io.MultiReader(bytes.NewReader(buf[:n]), f))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "cannot_read_audio_file", err)
		return
	}

	key, err := h.store.Upload(c.Request.Context(), data, fh.Filename, contentType)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	task, err := h.tasks.Create(dbc, &domainkaraoke.Task{
		OriginalKey: key,
		Language:    lang,
		Status:      domainkaraoke.TaskCreated,
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "task_create_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"id": task.ID, "status": task.Status})
}

// vacancyRequest/resumeRequest mirror only the fields an external submitter
// supplies; duplicate-check and scoring fields are worker-owned.
type vacancyRequest struct {
	Source             string                        `json:"source" binding:"required"`
	Text               string                        `json:"text" binding:"required"`
	Company            *string                       `json:"company"`
	JobTitle           *string                       `json:"job_title"`
	SpecialistType     string                        `json:"specialist_type" binding:"required"`
	WorkFormat         string                        `json:"work_format" binding:"required"`
	Grade              string                        `json:"grade" binding:"required"`
	ExperienceRequired int                           `json:"experience_required"`
	Salary             *domainjobmatcher.Salary      `json:"salary"`
	Technologies       []domainjobmatcher.Technology `json:"technologies"`
	Skills             []domainjobmatcher.Skill      `json:"skills"`
}

// POST /vacancies — creates a Vacancy; CheckDuplicates and Match pick it up
// from there.
func (h *IngestionHandler) CreateVacancy(c *gin.Context) {
	var req vacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	v := &domainjobmatcher.Vacancy{
		Source:             domainjobmatcher.SourceKind(req.Source),
		Text:               req.Text,
		Company:            req.Company,
		JobTitle:           req.JobTitle,
		SpecialistType:     domainjobmatcher.SpecialistType(req.SpecialistType),
		WorkFormat:         domainjobmatcher.WorkFormat(req.WorkFormat),
		Grade:              domainjobmatcher.Grade(req.Grade),
		ExperienceRequired: req.ExperienceRequired,
	}
	if req.Salary != nil {
		v.Salary = datatypes.NewJSONType(req.Salary)
	}
	if req.Technologies != nil {
		v.Technologies = datatypes.JSONSlice[domainjobmatcher.Technology](req.Technologies)
	}
	if req.Skills != nil {
		v.Skills = datatypes.JSONSlice[domainjobmatcher.Skill](req.Skills)
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	created, err := h.vacancies.Create(dbc, v)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "vacancy_create_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"id": created.ID})
}

type resumeRequest struct {
	Text           string                                   `json:"text" binding:"required"`
	Employee       *string                                  `json:"employee"`
	SpecialistType string                                   `json:"specialist_type" binding:"required"`
	Grade          string                                   `json:"grade" binding:"required"`
	Experience     int                                      `json:"experience"`
	Salary         *domainjobmatcher.Salary                 `json:"salary"`
	Technologies   []domainjobmatcher.TechnologyForResume   `json:"technologies"`
	Skills         []domainjobmatcher.SkillForResume        `json:"skills"`
}

// POST /resumes — creates an active Resume; future Match ticks will compare
// every unprocessed vacancy against it.
func (h *IngestionHandler) CreateResume(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	r := &domainjobmatcher.Resume{
		Text:           req.Text,
		Employee:       req.Employee,
		SpecialistType: domainjobmatcher.SpecialistType(req.SpecialistType),
		Grade:          domainjobmatcher.Grade(req.Grade),
		Experience:     req.Experience,
		IsActive:       true,
	}
	if req.Salary != nil {
		r.Salary = datatypes.NewJSONType(req.Salary)
	}
	if req.Technologies != nil {
		r.Technologies = datatypes.JSONSlice[domainjobmatcher.TechnologyForResume](req.Technologies)
	}
	if req.Skills != nil {
		r.Skills = datatypes.JSONSlice[domainjobmatcher.SkillForResume](req.Skills)
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	created, err := h.resumes.Create(dbc, r)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "resume_create_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"id": created.ID})
}
