package repositories

import (
	"time"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ProjectFilters struct {
	Status    *models.ProjectStatus `json:"status"`
	CreatedBy *uint                 `json:"created_by"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "name", "updated_at"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED HELPER STRUCTS =====

// QuestionPosition reorders one question within a project.
type QuestionPosition struct {
	QID      string `json:"qid"`
	Position int    `json:"position"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ProjectStats struct {
	QuestionCount    int                          `json:"question_count"`
	QuestionsByMode  map[models.QuestionMode]int  `json:"questions_by_mode"`
	ConditionalCount int                          `json:"conditional_count"`
	StatusBreakdown  map[models.ProjectStatus]int `json:"status_breakdown,omitempty"`
}
