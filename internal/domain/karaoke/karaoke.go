// Package karaoke holds the GORM models for the Task -> Step -> Track pipeline:
// SPLIT, TRANSCRIPT, SUBTITLES, ASSEMBLE.
package karaoke

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskCreated              TaskStatus = "created"
	TaskInSplitProcess       TaskStatus = "in_split_process"
	TaskSplitCompleted       TaskStatus = "split_completed"
	TaskInTranscriptProcess  TaskStatus = "in_transcript_process"
	TaskTranscriptCompleted  TaskStatus = "transcript_completed"
	TaskInSubtitlesProcess   TaskStatus = "in_subtitles_process"
	TaskSubtitlesCompleted   TaskStatus = "subtitles_completed"
	TaskCompleted            TaskStatus = "completed"
	TaskFailed               TaskStatus = "failed"
)

type StepKind string

const (
	StepSplit      StepKind = "split"
	StepTranscript StepKind = "transcript"
	StepSubtitles  StepKind = "subtitles"
)

type StepStatus string

const (
	StepInit        StepStatus = "init"
	StepInProcess   StepStatus = "in_process"
	StepCompleted   StepStatus = "completed"
	StepFailed      StepStatus = "failed"
	StepFinalFailed StepStatus = "final_failed"
)

// Word is one ASR word, embedded as JSONB on Task.Words and Track.TranscriptLines.
type Word struct {
	Text       string  `json:"text"`
	StartMs    int     `json:"start_ms"`
	EndMs      int     `json:"end_ms"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker,omitempty"`
}

// Subtitle is one parsed VTT cue before fusion with words.
type Subtitle struct {
	Text    string `json:"text"`
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
}

// TranscriptLine is one Fuse()-produced karaoke line: a subtitle cue with the
// words whose end time fell inside it, start-clamped to the cue boundary.
type TranscriptLine struct {
	Text    string `json:"text"`
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
	Words   []Word `json:"words"`
}

// Task is the root entity driven through SPLIT -> TRANSCRIPT -> SUBTITLES -> ASSEMBLE.
type Task struct {
	ID                uuid.UUID                          `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OriginalKey       string                              `gorm:"not null" json:"original_key"`
	VocalKey          *string                             `json:"vocal_key,omitempty"`
	InstrumentalKey   *string                             `json:"instrumental_key,omitempty"`
	Language          string                              `gorm:"not null" json:"language"`
	Status            TaskStatus                          `gorm:"not null;index" json:"status"`
	Words             datatypes.JSONSlice[Word]           `gorm:"type:jsonb" json:"words"`
	Subtitles         datatypes.JSONSlice[Subtitle]       `gorm:"type:jsonb" json:"subtitles"`
	TrackID           *uuid.UUID                          `json:"track_id,omitempty"`
	CreatedAt         time.Time                           `json:"created_at"`
	UpdatedAt         time.Time                           `json:"updated_at"`
	DeletedAt         gorm.DeletedAt                      `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }

// Step is the per-phase retry/attempt tracker for a Task. At most one
// non-terminal Step per (task_id, kind) may exist at a time.
type Step struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TaskID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"task_id"`
	Kind        StepKind               `gorm:"not null;index" json:"kind"`
	Status      StepStatus             `gorm:"not null;index" json:"status"`
	Attempts    int                    `gorm:"not null;default:0" json:"attempts"`
	Payload     datatypes.JSONMap      `gorm:"type:jsonb" json:"payload"`
	SubmittedAt *time.Time             `json:"submitted_at,omitempty"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func (Step) TableName() string { return "task_steps" }

// StepLog is an append-only audit row. Never updated, never read by a worker.
type StepLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TaskID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"task_id"`
	StepID    *uuid.UUID        `json:"step_id,omitempty"`
	Event     string            `gorm:"not null" json:"event"`
	Data      datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

func (StepLog) TableName() string { return "task_logs" }

// Track is created exactly once, on Task -> COMPLETED.
type Track struct {
	ID              uuid.UUID                             `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OriginalKey     string                                 `gorm:"not null" json:"original_key"`
	VocalKey        string                                 `gorm:"not null" json:"vocal_key"`
	InstrumentalKey string                                 `gorm:"not null" json:"instrumental_key"`
	Language        string                                 `gorm:"not null" json:"language"`
	TranscriptLines datatypes.JSONSlice[TranscriptLine]    `gorm:"type:jsonb" json:"transcript_lines"`
	CreatedAt       time.Time                              `json:"created_at"`
	UpdatedAt       time.Time                              `json:"updated_at"`
}

func (Track) TableName() string { return "tracks" }
