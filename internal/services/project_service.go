package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/qgen-labs/survey-logic-service/internal/events"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
	"github.com/qgen-labs/survey-logic-service/internal/validator"
)

// ProjectService manages questionnaire projects and their questions. Every
// mutation invalidates the cached validation report for the project.
type ProjectService struct {
	projects   repositories.ProjectRepository
	questions  repositories.QuestionRepository
	validation *ValidationService
	validator  *validator.Validator
	publisher  events.EventPublisher
	logger     utils.Logger
	ops        *ServiceLogger
}

func NewProjectService(
	projects repositories.ProjectRepository,
	questions repositories.QuestionRepository,
	validation *ValidationService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		questions:  questions,
		validation: validation,
		validator:  v,
		publisher:  publisher,
		logger:     logger,
		ops: NewServiceLogger(utils.ToSlogLogger(logger), LogConfig{
			Service:   "survey-logic-service",
			Component: "projects",
		}),
	}
}

// ===== REQUEST TYPES =====

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	CreatedBy   uint    `json:"created_by"`
}

type UpdateProjectRequest struct {
	Name        *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=1000"`
	Status      *models.ProjectStatus `json:"status" validate:"omitempty,project_status"`
}

type SaveQuestionRequest struct {
	Question models.Question `json:"question"`
	Position *int            `json:"position,omitempty"`
}

// ===== PROJECT OPERATIONS =====

func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		verrs := validator.ToValidationErrors(err)
		s.ops.LogValidationError(ctx, "create_project", verrs)
		return nil, verrs
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil, fmt.Errorf("%w: %s", ErrProjectDuplicateName, req.Name)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.InfoContext(ctx, "project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projects.GetByIDWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}

	if project.Status == models.ProjectArchived {
		return nil, ErrProjectNotEditable
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		if err := validateStatusTransition(project.Status, *req.Status); err != nil {
			return nil, err
		}
		project.Status = *req.Status
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if s.publisher != nil {
		event := events.NewProjectUpdatedEvent(project.ID, project.Name, string(project.Status))
		if err := s.publisher.PublishSurveyEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish project updated event",
				"project_id", id, "error", err)
		}
	}

	s.invalidateValidation(ctx, id)
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrProjectNotFound, id)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.invalidateValidation(ctx, id)
	return nil
}

func (s *ProjectService) ListProjects(ctx context.Context, filters repositories.ProjectFilters) ([]*models.Project, int64, error) {
	return s.projects.List(ctx, filters)
}

// validateStatusTransition enforces the project lifecycle: drafts activate or
// archive, active projects archive, archived projects stay archived.
func validateStatusTransition(current, next models.ProjectStatus) error {
	allowed := map[models.ProjectStatus][]models.ProjectStatus{
		models.ProjectDraft:    {models.ProjectActive, models.ProjectArchived},
		models.ProjectActive:   {models.ProjectDraft, models.ProjectArchived},
		models.ProjectArchived: {},
	}
	for _, status := range allowed[current] {
		if status == next {
			return nil
		}
	}
	return NewBusinessRuleError(
		"PROJECT-INVALID-STATUS-TRANSITION",
		fmt.Sprintf("Cannot transition from %s to %s", current, next),
		map[string]interface{}{"current_status": current, "new_status": next},
	)
}

// ===== QUESTION OPERATIONS =====

func (s *ProjectService) GetQuestions(ctx context.Context, projectID uint) ([]models.Question, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, projectID)
	}
	records, err := s.questions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return models.QuestionsOf(records), nil
}

func (s *ProjectService) AddQuestion(ctx context.Context, projectID uint, req *SaveQuestionRequest) error {
	if strings.TrimSpace(req.Question.ID) == "" {
		return NewValidationError("question.id", "is required", req.Question.ID)
	}
	if req.Question.Mode != "" && !models.ValidModes[req.Question.Mode] {
		return fmt.Errorf("%w: %s", ErrQuestionInvalidMode, req.Question.Mode)
	}
	if err := s.validator.Question().ValidateQuestion(&req.Question); err != nil {
		return NewValidationError("question", err.Error(), req.Question.ID)
	}

	exists, err := s.questions.ExistsByQID(ctx, projectID, req.Question.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to check question id: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrQuestionDuplicateID, req.Question.ID)
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		count, err := s.questions.CountByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to count questions: %w", err)
		}
		position = int(count)
	}

	record, err := models.NewQuestionRecord(projectID, position, req.Question)
	if err != nil {
		return fmt.Errorf("failed to serialize question: %w", err)
	}
	if err := s.questions.Create(ctx, &record); err != nil {
		return fmt.Errorf("failed to add question: %w", err)
	}

	s.invalidateValidation(ctx, projectID)
	return nil
}

func (s *ProjectService) UpdateQuestion(ctx context.Context, projectID uint, qid string, question models.Question) error {
	record, err := s.questions.GetByQID(ctx, projectID, qid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrQuestionNotFound, qid)
		}
		return fmt.Errorf("failed to load question: %w", err)
	}

	question.ID = qid
	if err := s.validator.Question().ValidateQuestion(&question); err != nil {
		return NewValidationError("question", err.Error(), qid)
	}

	updated, err := models.NewQuestionRecord(projectID, record.Position, question)
	if err != nil {
		return fmt.Errorf("failed to serialize question: %w", err)
	}
	updated.ID = record.ID
	updated.CreatedAt = record.CreatedAt

	if err := s.questions.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidateValidation(ctx, projectID)
	return nil
}

func (s *ProjectService) DeleteQuestion(ctx context.Context, projectID uint, qid string) error {
	if err := s.questions.Delete(ctx, projectID, qid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrQuestionNotFound, qid)
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	s.invalidateValidation(ctx, projectID)
	return nil
}

func (s *ProjectService) ReorderQuestions(ctx context.Context, projectID uint, positions []repositories.QuestionPosition) error {
	if err := s.questions.Reorder(ctx, projectID, positions); err != nil {
		return fmt.Errorf("failed to reorder questions: %w", err)
	}
	s.invalidateValidation(ctx, projectID)
	return nil
}

func (s *ProjectService) invalidateValidation(ctx context.Context, projectID uint) {
	if s.validation == nil {
		return
	}
	if err := s.validation.InvalidateCache(ctx, projectID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate validation cache",
			"project_id", projectID, "error", err)
	}
}
