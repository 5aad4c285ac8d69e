package repositories

import (
	"context"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// ProjectRepository interface for project-specific operations
type ProjectRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error // Soft delete

	// Query operations
	List(ctx context.Context, filters ProjectFilters) ([]*models.Project, int64, error)
	GetByCreator(ctx context.Context, creatorID uint, filters ProjectFilters) ([]*models.Project, int64, error)

	// Status management
	UpdateStatus(ctx context.Context, id uint, status models.ProjectStatus) error

	// Validation helpers
	ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error)

	// Statistics
	GetProjectStats(ctx context.Context, id uint) (*ProjectStats, error)
}

// QuestionRepository interface for question record operations
type QuestionRepository interface {
	Create(ctx context.Context, record *models.QuestionRecord) error
	GetByQID(ctx context.Context, projectID uint, qid string) (*models.QuestionRecord, error)
	Update(ctx context.Context, record *models.QuestionRecord) error
	Delete(ctx context.Context, projectID uint, qid string) error

	// Ordered retrieval for the logic engine and validator
	ListByProject(ctx context.Context, projectID uint) ([]models.QuestionRecord, error)

	// Bulk operations
	ReplaceAll(ctx context.Context, projectID uint, records []models.QuestionRecord) error
	Reorder(ctx context.Context, projectID uint, positions []QuestionPosition) error

	// Validation helpers
	ExistsByQID(ctx context.Context, projectID uint, qid string, excludeID *uint) (bool, error)
	CountByProject(ctx context.Context, projectID uint) (int64, error)
}
