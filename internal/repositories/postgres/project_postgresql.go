package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"gorm.io/gorm"
)

type ProjectPostgreSQL struct {
	db *gorm.DB
}

func NewProjectPostgreSQL(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectPostgreSQL{db: db}
}

// Create creates a new project in draft status
func (p *ProjectPostgreSQL) Create(ctx context.Context, project *models.Project) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := p.ExistsByName(ctx, project.Name, nil)
		if err != nil {
			return fmt.Errorf("failed to check name uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("project with name '%s' already exists", project.Name)
		}

		project.Status = models.ProjectDraft
		project.Version = 1
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a project by ID
func (p *ProjectPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := p.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByIDWithQuestions retrieves a project with its questions in display order
func (p *ProjectPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := p.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project and bumps its version
func (p *ProjectPostgreSQL) Update(ctx context.Context, project *models.Project) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Project
		if err := tx.First(&current, project.ID).Error; err != nil {
			return fmt.Errorf("project not found: %w", err)
		}

		if project.Name != current.Name {
			exists, err := p.ExistsByName(ctx, project.Name, &project.ID)
			if err != nil {
				return fmt.Errorf("failed to check name uniqueness: %w", err)
			}
			if exists {
				return fmt.Errorf("project with name '%s' already exists", project.Name)
			}
		}

		project.Version = current.Version + 1
		project.UpdatedAt = time.Now()

		if err := tx.Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a project
func (p *ProjectPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves projects matching the filters with a total count
func (p *ProjectPostgreSQL) List(ctx context.Context, filters repositories.ProjectFilters) ([]*models.Project, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.Project{})
	query = applyProjectFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query = applyProjectSort(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var projects []*models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetByCreator retrieves a creator's projects
func (p *ProjectPostgreSQL) GetByCreator(ctx context.Context, creatorID uint, filters repositories.ProjectFilters) ([]*models.Project, int64, error) {
	filters.CreatedBy = &creatorID
	return p.List(ctx, filters)
}

// UpdateStatus changes a project's status
func (p *ProjectPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ProjectStatus) error {
	result := p.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update project status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsByName checks name uniqueness, optionally excluding one project
func (p *ProjectPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	query := p.db.WithContext(ctx).Model(&models.Project{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetProjectStats aggregates question counts for a project
func (p *ProjectPostgreSQL) GetProjectStats(ctx context.Context, id uint) (*repositories.ProjectStats, error) {
	var records []models.QuestionRecord
	err := p.db.WithContext(ctx).
		Where("project_id = ?", id).
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load question records: %w", err)
	}

	stats := &repositories.ProjectStats{
		QuestionCount:   len(records),
		QuestionsByMode: make(map[models.QuestionMode]int),
	}
	for _, q := range models.QuestionsOf(records) {
		stats.QuestionsByMode[q.Mode]++
		if q.Conditions != nil && q.Conditions.Mode != models.ConditionNone && len(q.Conditions.Rules) > 0 {
			stats.ConditionalCount++
		}
	}
	return stats, nil
}

func applyProjectFilters(query *gorm.DB, filters repositories.ProjectFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func applyProjectSort(query *gorm.DB, filters repositories.ProjectFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "name", "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	return query.Order(sortBy + " " + order)
}
