// Package jobmatcher holds the GORM models for vacancy deduplication and
// vacancy/resume scoring.
package jobmatcher

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SourceKind string

const (
	SourceTelegram SourceKind = "tg"
	SourceManual   SourceKind = "manual"
)

type SpecialistType string

const (
	SpecialistFrontend     SpecialistType = "frontend"
	SpecialistBackend      SpecialistType = "backend"
	SpecialistFullstack    SpecialistType = "fullstack"
	SpecialistAnalyst      SpecialistType = "analyst"
	SpecialistDevops       SpecialistType = "devops"
	SpecialistQA           SpecialistType = "qa"
	SpecialistAutomaticQA  SpecialistType = "automatic_qa"
	SpecialistDesigner     SpecialistType = "designer"
	SpecialistOther        SpecialistType = "other"
)

type WorkFormat string

const (
	WorkFormatOffice WorkFormat = "office"
	WorkFormatRemote WorkFormat = "remote"
	WorkFormatHybrid WorkFormat = "hybrid"
)

type Grade string

const (
	GradeJunior    Grade = "junior"
	GradeMiddle    Grade = "middle"
	GradeSenior    Grade = "senior"
	GradePrinciple Grade = "principle"
	GradeLead      Grade = "lead"
)

type Salary struct {
	IsDefined   bool    `json:"is_defined"`
	SalaryFrom  *int    `json:"salary_from,omitempty"`
	SalaryTo    *int    `json:"salary_to,omitempty"`
	Currency    string  `json:"currency"`
	TaxIncluded bool    `json:"tax_included"`
}

type Technology struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Required bool   `json:"required"`
}

type Skill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Required bool   `json:"required"`
}

// TechnologyForResume/SkillForResume drop Required (a resume states what the
// candidate has, not what's mandatory).
type TechnologyForResume struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type SkillForResume struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Vacancy carries both the raw source text and the structured attributes an
// LLM extracted from it.
type Vacancy struct {
	ID                     uuid.UUID                              `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Source                 SourceKind                              `gorm:"not null" json:"source"`
	Text                   string                                  `gorm:"type:text;not null" json:"text"`
	Company                *string                                 `json:"company,omitempty"`
	JobTitle               *string                                 `json:"job_title,omitempty"`
	SpecialistType         SpecialistType                          `gorm:"not null;index" json:"specialist_type"`
	WorkFormat             WorkFormat                              `gorm:"not null" json:"work_format"`
	Grade                  Grade                                   `gorm:"not null;index" json:"grade"`
	ExperienceRequired     int                                     `gorm:"not null" json:"experience_required"`
	Salary                 datatypes.JSONType[*Salary]             `gorm:"type:jsonb" json:"salary"`
	Technologies           datatypes.JSONSlice[Technology]         `gorm:"type:jsonb" json:"technologies"`
	Skills                 datatypes.JSONSlice[Skill]              `gorm:"type:jsonb" json:"skills"`
	DuplicateCheckedAt     *time.Time                              `gorm:"index" json:"duplicate_checked_at,omitempty"`
	DuplicateCheckSuccess  bool                                    `gorm:"not null;default:false" json:"duplicate_check_success"`
	OriginalVacancyID      *uuid.UUID                              `gorm:"index" json:"original_vacancy_id,omitempty"`
	ProcessedAt            *time.Time                              `gorm:"index" json:"processed_at,omitempty"`
	CreatedAt              time.Time                               `gorm:"index" json:"created_at"`
	UpdatedAt              time.Time                               `json:"updated_at"`
	DeletedAt              gorm.DeletedAt                          `gorm:"index" json:"-"`
}

func (Vacancy) TableName() string { return "vacancies" }

type Resume struct {
	ID           uuid.UUID                                `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Text         string                                    `gorm:"type:text;not null" json:"text"`
	Employee     *string                                   `json:"employee,omitempty"`
	SpecialistType SpecialistType                          `gorm:"not null;index" json:"specialist_type"`
	Grade        Grade                                     `gorm:"not null" json:"grade"`
	Experience   int                                       `gorm:"not null" json:"experience"`
	Salary       datatypes.JSONType[*Salary]               `gorm:"type:jsonb" json:"salary"`
	Technologies datatypes.JSONSlice[TechnologyForResume]  `gorm:"type:jsonb" json:"technologies"`
	Skills       datatypes.JSONSlice[SkillForResume]       `gorm:"type:jsonb" json:"skills"`
	IsActive     bool                                      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time                                 `json:"created_at"`
	UpdatedAt    time.Time                                 `json:"updated_at"`
	DeletedAt    gorm.DeletedAt                            `gorm:"index" json:"-"`
}

func (Resume) TableName() string { return "resumes" }

type Comment struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Match is unique on (VacancyID, ResumeID).
type Match struct {
	ID            uuid.UUID              `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VacancyID     uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_match_vacancy_resume" json:"vacancy_id"`
	ResumeID      uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_match_vacancy_resume" json:"resume_id"`
	Score         int                    `gorm:"not null" json:"score"`
	IsRecommended bool                   `gorm:"not null" json:"is_recommended"`
	Comments      datatypes.JSONSlice[Comment] `gorm:"type:jsonb" json:"comments"`
	CreatedAt     time.Time              `json:"created_at"`
}

func (Match) TableName() string { return "matches" }

// DuplicateLog records one duplicate-check decision or failure per vacancy.
type DuplicateLog struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VacancyID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"vacancy_id"`
	IsDuplicate         *bool             `json:"is_duplicate,omitempty"`
	DuplicateOfVacancyID *uuid.UUID       `json:"duplicate_of_vacancy_id,omitempty"`
	Data                datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	CreatedAt           time.Time         `json:"created_at"`
}

func (DuplicateLog) TableName() string { return "duplicate_logs" }

// MatchLog records one vacancy/resume scoring attempt or failure.
type MatchLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VacancyID uuid.UUID         `gorm:"type:uuid;not null;index" json:"vacancy_id"`
	ResumeID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"resume_id"`
	Score     *int              `json:"score,omitempty"`
	Data      datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

func (MatchLog) TableName() string { return "match_logs" }
