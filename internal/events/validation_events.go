package events

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
)

// EventType represents different types of survey lifecycle events
type EventType string

const (
	// Validation events
	EventValidationCompleted EventType = "validation.completed"
	EventProjectExportReady  EventType = "project.export_ready"

	// Project events
	EventProjectImported EventType = "project.imported"
	EventProjectUpdated  EventType = "project.updated"
)

// SurveyEvent is the base event structure for all survey lifecycle events
type SurveyEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Validation event payloads

type ValidationCompletedEvent struct {
	ProjectID     uint      `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	ValidatedAt   time.Time `json:"validated_at"`
	QuestionCount int       `json:"question_count"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
	InfoCount     int       `json:"info_count"`
	Ready         bool      `json:"ready"`
}

type ProjectExportReadyEvent struct {
	ProjectID   uint      `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ReadyAt     time.Time `json:"ready_at"`
}

// Project event payloads

type ProjectImportedEvent struct {
	ProjectID     uint      `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	ImportedAt    time.Time `json:"imported_at"`
	QuestionCount int       `json:"question_count"`
	SourceFile    string    `json:"source_file,omitempty"`
}

type ProjectUpdatedEvent struct {
	ProjectID   uint      `json:"project_id"`
	ProjectName string    `json:"project_name"`
	UpdatedAt   time.Time `json:"updated_at"`
	Status      string    `json:"status"`
}

// Event factory functions

func NewValidationCompletedEvent(projectID uint, name string, questionCount int, report *apperrors.ValidationReport) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventValidationCompleted,
		Timestamp: time.Now(),
		Source:    "survey-logic-service",
		Version:   "1.0",
		Data: ValidationCompletedEvent{
			ProjectID:     projectID,
			ProjectName:   name,
			ValidatedAt:   time.Now(),
			QuestionCount: questionCount,
			ErrorCount:    len(report.Errors),
			WarningCount:  len(report.Warnings),
			InfoCount:     len(report.Info),
			Ready:         report.Ready,
		},
	}
}

func NewProjectExportReadyEvent(projectID uint, name string) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventProjectExportReady,
		Timestamp: time.Now(),
		Source:    "survey-logic-service",
		Version:   "1.0",
		Data: ProjectExportReadyEvent{
			ProjectID:   projectID,
			ProjectName: name,
			ReadyAt:     time.Now(),
		},
	}
}

func NewProjectImportedEvent(projectID uint, name string, questionCount int, sourceFile string) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventProjectImported,
		Timestamp: time.Now(),
		Source:    "survey-logic-service",
		Version:   "1.0",
		Data: ProjectImportedEvent{
			ProjectID:     projectID,
			ProjectName:   name,
			ImportedAt:    time.Now(),
			QuestionCount: questionCount,
			SourceFile:    sourceFile,
		},
	}
}

func NewProjectUpdatedEvent(projectID uint, name, status string) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventProjectUpdated,
		Timestamp: time.Now(),
		Source:    "survey-logic-service",
		Version:   "1.0",
		Data: ProjectUpdatedEvent{
			ProjectID:   projectID,
			ProjectName: name,
			UpdatedAt:   time.Now(),
			Status:      status,
		},
	}
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}
