package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qgen-labs/survey-logic-service/internal/cache"
	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
	"github.com/qgen-labs/survey-logic-service/internal/events"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
	"github.com/qgen-labs/survey-logic-service/internal/validator"
)

// ValidationService runs project-level validation, caches the resulting
// report and announces completed runs on the event bus. The cache is keyed by
// project id and version so a stale report can never be served after an edit.
type ValidationService struct {
	projects  repositories.ProjectRepository
	questions repositories.QuestionRepository
	validator *validator.ProjectValidator
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	ops       *ServiceLogger
	cacheTTL  time.Duration
}

func NewValidationService(
	projects repositories.ProjectRepository,
	questions repositories.QuestionRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
	cacheTTL time.Duration,
) *ValidationService {
	return &ValidationService{
		projects:  projects,
		questions: questions,
		validator: validator.NewProjectValidator(),
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		ops: NewServiceLogger(utils.ToSlogLogger(logger), LogConfig{
			Service:   "survey-logic-service",
			Component: "validation",
		}),
		cacheTTL: cacheTTL,
	}
}

// ValidateProject loads a project's questions, runs the full validation
// battery and returns the severity-grouped report.
func (s *ValidationService) ValidateProject(ctx context.Context, projectID uint) (report *apperrors.ValidationReport, err error) {
	timer := s.ops.StartOperation("validate_project", projectID)
	defer func() { timer.Stop(ctx, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrProjectNotFound, projectID)
	}

	cacheKey := s.reportCacheKey(project)
	if s.cache != nil {
		var cached apperrors.ValidationReport
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.DebugContext(ctx, "validation report served from cache",
				"project_id", projectID, "version", project.Version)
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "validation report cache lookup failed",
				"project_id", projectID, "error", err)
		}
	}

	records, err := s.questions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	questionList := models.QuestionsOf(records)

	report = s.validator.ValidateReport(questionList)

	s.logger.InfoContext(ctx, "project validated",
		"project_id", projectID,
		"questions", len(questionList),
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"ready", report.Ready)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache validation report",
				"project_id", projectID, "error", err)
		}
	}

	if s.publisher != nil {
		event := events.NewValidationCompletedEvent(project.ID, project.Name, len(questionList), report)
		if err := s.publisher.PublishSurveyEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish validation event",
				"project_id", projectID, "error", err)
		}
		if report.Ready {
			ready := events.NewProjectExportReadyEvent(project.ID, project.Name)
			if err := s.publisher.PublishSurveyEvent(ctx, ready); err != nil {
				s.logger.WarnContext(ctx, "failed to publish export ready event",
					"project_id", projectID, "error", err)
			}
		}
	}

	return report, nil
}

// ValidateQuestions runs the validation battery over an in-memory question
// list without touching storage. Used by the editor for live validation of
// unsaved questionnaires.
func (s *ValidationService) ValidateQuestions(ctx context.Context, questions []models.Question) *apperrors.ValidationReport {
	report := s.validator.ValidateReport(questions)
	s.logger.DebugContext(ctx, "ad-hoc validation run",
		"questions", len(questions),
		"issues", len(report.Issues))
	return report
}

// ValidateResponse checks a single question's response-level validation rule.
func (s *ValidationService) ValidateResponse(ctx context.Context, q *models.Question, responses models.ResponseMap) *validator.ResponseValidationResult {
	return validator.ValidateResponse(q, responses)
}

// CheckExportReady returns nil when the project has no blocking errors,
// otherwise a business rule error carrying the count.
func (s *ValidationService) CheckExportReady(ctx context.Context, projectID uint) error {
	report, err := s.ValidateProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !report.Ready {
		ruleErr := NewBusinessRuleError(
			"PROJECT-NOT-EXPORT-READY",
			fmt.Sprintf("Project has %d validation errors and cannot be exported", len(report.Errors)),
			map[string]interface{}{
				"project_id":  projectID,
				"error_count": len(report.Errors),
			},
		)
		s.ops.LogBusinessRuleViolation(ctx, "check_export_ready", ruleErr)
		return ruleErr
	}
	return nil
}

// InvalidateCache drops any cached reports for the project, across versions.
func (s *ValidationService) InvalidateCache(ctx context.Context, projectID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePattern(ctx, fmt.Sprintf("validation:report:%d:*", projectID))
}

func (s *ValidationService) reportCacheKey(project *models.Project) string {
	return fmt.Sprintf("validation:report:%d:%d", project.ID, project.Version)
}
