package services

import (
	"context"
	"fmt"

	"github.com/qgen-labs/survey-logic-service/internal/logic"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

// LogicService exposes the conditional logic engine over stored projects:
// visibility resolution, rule descriptions, operator catalogs and source
// question lookup for the condition editor.
type LogicService struct {
	projects  repositories.ProjectRepository
	questions repositories.QuestionRepository
	logger    utils.Logger
}

func NewLogicService(
	projects repositories.ProjectRepository,
	questions repositories.QuestionRepository,
	logger utils.Logger,
) *LogicService {
	return &LogicService{
		projects:  projects,
		questions: questions,
		logger:    logger,
	}
}

// VisibilityResult pairs one question with its resolved visibility.
type VisibilityResult struct {
	QID         string `json:"qid"`
	Visible     bool   `json:"visible"`
	Description string `json:"description"`
}

// ResolveVisibility evaluates every question's conditions against the given
// responses and returns per-question visibility with a readable description.
func (s *LogicService) ResolveVisibility(ctx context.Context, projectID uint, responses models.ResponseMap) ([]VisibilityResult, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}

	results := make([]VisibilityResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		results = append(results, VisibilityResult{
			QID:         q.ID,
			Visible:     logic.ShouldShowQuestion(q, responses, questions),
			Description: logic.DescribeConditionSet(q.Conditions, questions),
		})
	}

	s.logger.DebugContext(ctx, "visibility resolved",
		"project_id", projectID, "questions", len(results))
	return results, nil
}

// PreviewVisibility resolves visibility against deterministic mock responses,
// letting the editor preview conditional flow before fieldwork.
func (s *LogicService) PreviewVisibility(ctx context.Context, projectID uint) ([]VisibilityResult, models.ResponseMap, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	responses := logic.BuildMockResponses(questions)

	results := make([]VisibilityResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		results = append(results, VisibilityResult{
			QID:         q.ID,
			Visible:     logic.ShouldShowQuestion(q, responses, questions),
			Description: logic.DescribeConditionSet(q.Conditions, questions),
		})
	}
	return results, responses, nil
}

// EvaluateRule evaluates one rule against ad-hoc responses. Used by the
// condition editor's live preview.
func (s *LogicService) EvaluateRule(ctx context.Context, projectID uint, rule models.ConditionRule, responses models.ResponseMap) (bool, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return false, err
	}
	return logic.EvaluateRule(rule, responses, questions), nil
}

// DescribeConditions renders a question's condition set as preview text.
func (s *LogicService) DescribeConditions(ctx context.Context, projectID uint, qid string) (string, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return "", err
	}
	q := models.FindQuestion(questions, qid)
	if q == nil {
		return "", fmt.Errorf("%w: %s", ErrQuestionNotFound, qid)
	}
	return logic.DescribeConditionSet(q.Conditions, questions), nil
}

// OperatorCatalog describes the operators a source question supports.
type OperatorCatalog struct {
	SourceQID string             `json:"source_qid"`
	Kind      string             `json:"kind"`
	Unified   logic.UnifiedType  `json:"unified_type"`
	Support   logic.SupportLevel `json:"support"`
	Operators logic.OperatorSet  `json:"operators"`
	Options   []models.Option    `json:"options"`
}

// OperatorsForSource returns the operator set and selectable options for one
// source question.
func (s *LogicService) OperatorsForSource(ctx context.Context, projectID uint, sourceQID string) (*OperatorCatalog, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	q := models.FindQuestion(questions, sourceQID)
	if q == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, sourceQID)
	}

	return &OperatorCatalog{
		SourceQID: sourceQID,
		Kind:      q.Kind(),
		Unified:   logic.Classify(q),
		Support:   logic.ConditionalSupport(q),
		Operators: logic.OperatorsForKind(q.Kind()),
		Options:   logic.OptionsForConditions(q),
	}, nil
}

// AvailableSources lists the questions a rule at the given position may
// reference.
func (s *LogicService) AvailableSources(ctx context.Context, projectID uint, currentIndex int) ([]logic.SourceQuestion, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return logic.AvailableSourceQuestions(currentIndex, questions), nil
}

// ValidateRule checks a rule for completeness before it is saved.
func (s *LogicService) ValidateRule(ctx context.Context, projectID uint, rule models.ConditionRule) ([]string, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return logic.ValidateRule(rule, questions), nil
}

// DependencyGraph returns the visibility dependency adjacency for a project.
func (s *LogicService) DependencyGraph(ctx context.Context, projectID uint) (map[string][]string, error) {
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return logic.BuildDependencyGraph(questions), nil
}

func (s *LogicService) loadQuestions(ctx context.Context, projectID uint) ([]models.Question, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("%w: project %d", ErrProjectNotFound, projectID)
	}
	records, err := s.questions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return models.QuestionsOf(records), nil
}
