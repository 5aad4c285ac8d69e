package postgres

import (
	"context"
	"fmt"

	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create inserts a question record, enforcing qid uniqueness in the project
func (q *QuestionPostgreSQL) Create(ctx context.Context, record *models.QuestionRecord) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := q.ExistsByQID(ctx, record.ProjectID, record.QID, nil)
		if err != nil {
			return fmt.Errorf("failed to check qid uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("question '%s' already exists in project %d", record.QID, record.ProjectID)
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
}

// GetByQID retrieves one question record by its project-scoped id
func (q *QuestionPostgreSQL) GetByQID(ctx context.Context, projectID uint, qid string) (*models.QuestionRecord, error) {
	var record models.QuestionRecord
	err := q.db.WithContext(ctx).
		Where("project_id = ? AND qid = ?", projectID, qid).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update saves a question record
func (q *QuestionPostgreSQL) Update(ctx context.Context, record *models.QuestionRecord) error {
	if err := q.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// Delete removes a question record
func (q *QuestionPostgreSQL) Delete(ctx context.Context, projectID uint, qid string) error {
	result := q.db.WithContext(ctx).
		Where("project_id = ? AND qid = ?", projectID, qid).
		Delete(&models.QuestionRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByProject returns a project's question records in display order
func (q *QuestionPostgreSQL) ListByProject(ctx context.Context, projectID uint) ([]models.QuestionRecord, error) {
	var records []models.QuestionRecord
	err := q.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps a project's entire question list in one transaction.
// Used by the importer, which always writes a full questionnaire.
func (q *QuestionPostgreSQL) ReplaceAll(ctx context.Context, projectID uint, records []models.QuestionRecord) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.QuestionRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}
		for i := range records {
			records[i].ProjectID = projectID
			records[i].Position = i
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to insert questions: %w", err)
		}
		return nil
	})
}

// Reorder applies new positions to a project's questions
func (q *QuestionPostgreSQL) Reorder(ctx context.Context, projectID uint, positions []repositories.QuestionPosition) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pos := range positions {
			result := tx.Model(&models.QuestionRecord{}).
				Where("project_id = ? AND qid = ?", projectID, pos.QID).
				Update("position", pos.Position)
			if result.Error != nil {
				return fmt.Errorf("failed to reorder question '%s': %w", pos.QID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("question '%s' not found in project %d", pos.QID, projectID)
			}
		}
		return nil
	})
}

// ExistsByQID checks qid uniqueness within a project
func (q *QuestionPostgreSQL) ExistsByQID(ctx context.Context, projectID uint, qid string, excludeID *uint) (bool, error) {
	query := q.db.WithContext(ctx).
		Model(&models.QuestionRecord{}).
		Where("project_id = ? AND qid = ?", projectID, qid)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByProject counts a project's questions
func (q *QuestionPostgreSQL) CountByProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.QuestionRecord{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
