package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectDraft    ProjectStatus = "Draft"
	ProjectActive   ProjectStatus = "Active"
	ProjectArchived ProjectStatus = "Archived"
)

// Project is a questionnaire under authoring.
type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string       `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Status      ProjectStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,oneof=Draft Active Archived"`

	CreatedBy uint           `json:"created_by" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Version int `json:"version" gorm:"default:1"`

	Questions []QuestionRecord `json:"questions" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// QuestionRecord is the persisted form of a Question. The frequently queried
// fields are real columns; the full question definition (options, conditions,
// grid/scale/numeric config) lives in the jsonb Config column.
type QuestionRecord struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProjectID uint   `json:"project_id" gorm:"not null;index:idx_project_position"`
	Position  int    `json:"position" gorm:"not null;index:idx_project_position"`
	QID       string `json:"qid" gorm:"not null;size:50" validate:"required,max=50"`
	Mode      string `json:"mode" gorm:"size:20"`
	Text      string `json:"text" gorm:"type:text"`

	Config datatypes.JSON `json:"config" gorm:"type:jsonb"` // marshalled Question

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuestionRecord) TableName() string {
	return "project_questions"
}

// ToQuestion unmarshals the record into the in-memory Question used by the
// logic engine. The column values win over whatever the blob carries.
func (r *QuestionRecord) ToQuestion() (Question, error) {
	var q Question
	if len(r.Config) > 0 {
		if err := json.Unmarshal(r.Config, &q); err != nil {
			return Question{}, err
		}
	}
	q.ID = r.QID
	q.Mode = QuestionMode(r.Mode)
	q.Text = r.Text
	return q, nil
}

// NewQuestionRecord builds a persisted record from an in-memory question.
func NewQuestionRecord(projectID uint, position int, q Question) (QuestionRecord, error) {
	config, err := json.Marshal(q)
	if err != nil {
		return QuestionRecord{}, err
	}
	return QuestionRecord{
		ProjectID: projectID,
		Position:  position,
		QID:       q.ID,
		Mode:      string(q.Mode),
		Text:      q.Text,
		Config:    datatypes.JSON(config),
	}, nil
}

// QuestionsOf converts a project's ordered records into logic-engine
// questions. Records that fail to unmarshal are skipped rather than failing
// the whole project load.
func QuestionsOf(records []QuestionRecord) []Question {
	questions := make([]Question, 0, len(records))
	for i := range records {
		q, err := records[i].ToQuestion()
		if err != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}
