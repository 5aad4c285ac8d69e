package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qgen-labs/survey-logic-service/internal/events"
	"github.com/qgen-labs/survey-logic-service/internal/models"
)

func mockPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustRecord(t *testing.T, projectID uint, position int, q models.Question) models.QuestionRecord {
	t.Helper()
	record, err := models.NewQuestionRecord(projectID, position, q)
	assert.NoError(t, err)
	return record
}

func TestValidationService_ValidateProject(t *testing.T) {
	ctx := context.Background()

	project := &models.Project{ID: 7, Name: "CSAT 2026", Version: 2}
	records := []models.QuestionRecord{
		mustRecord(t, 7, 0, models.Question{
			ID: "S1", Mode: models.ModeList, Text: "Age group?",
			Options: []models.Option{{Code: "1", Label: "18-24"}, {Code: "2", Label: "25+"}},
		}),
		mustRecord(t, 7, 1, models.Question{ID: "Q1", Mode: models.ModeOpenEnd, Text: "Comments?"}),
	}

	projects := new(MockProjectRepository)
	questions := new(MockQuestionRepository)
	cacheSvc := newMemoryCache()
	publisher := mockPublisher()

	projects.On("GetByID", ctx, uint(7)).Return(project, nil)
	questions.On("ListByProject", ctx, uint(7)).Return(records, nil)

	service := NewValidationService(projects, questions, cacheSvc, publisher, testLogger(), time.Minute)

	report, err := service.ValidateProject(ctx, 7)

	assert.NoError(t, err)
	assert.True(t, report.Ready)
	assert.Empty(t, report.Errors)

	t.Run("publishes completion and ready events", func(t *testing.T) {
		published := publisher.GetPublishedEvents()
		assert.Len(t, published, 2)
		assert.Equal(t, events.EventValidationCompleted, published[0].Type)
		assert.Equal(t, events.EventProjectExportReady, published[1].Type)

		data, ok := published[0].Data.(events.ValidationCompletedEvent)
		assert.True(t, ok, "event data is ValidationCompletedEvent")
		assert.Equal(t, uint(7), data.ProjectID)
		assert.Equal(t, "CSAT 2026", data.ProjectName)
		assert.Equal(t, 2, data.QuestionCount)
		assert.True(t, data.Ready)
	})

	t.Run("second run is served from cache", func(t *testing.T) {
		questions.AssertNumberOfCalls(t, "ListByProject", 1)

		again, err := service.ValidateProject(ctx, 7)
		assert.NoError(t, err)
		assert.True(t, again.Ready)

		questions.AssertNumberOfCalls(t, "ListByProject", 1)
		assert.Equal(t, 1, cacheSvc.hits)
	})

	t.Run("version bump misses the cache", func(t *testing.T) {
		project.Version = 3
		_, err := service.ValidateProject(ctx, 7)
		assert.NoError(t, err)
		questions.AssertNumberOfCalls(t, "ListByProject", 2)
	})
}

func TestValidationService_ValidateProject_WithErrors(t *testing.T) {
	ctx := context.Background()

	project := &models.Project{ID: 9, Name: "Broken", Version: 1}
	records := []models.QuestionRecord{
		mustRecord(t, 9, 0, models.Question{ID: "Q1", Mode: models.ModeList, Text: "Pick one"}),
	}

	projects := new(MockProjectRepository)
	questions := new(MockQuestionRepository)
	publisher := mockPublisher()

	projects.On("GetByID", ctx, uint(9)).Return(project, nil)
	questions.On("ListByProject", ctx, uint(9)).Return(records, nil)

	service := NewValidationService(projects, questions, newMemoryCache(), publisher, testLogger(), time.Minute)

	report, err := service.ValidateProject(ctx, 9)

	assert.NoError(t, err)
	assert.False(t, report.Ready)
	assert.NotEmpty(t, report.Errors)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1, "no export ready event for a failing project")
	assert.Equal(t, events.EventValidationCompleted, published[0].Type)
}

func TestValidationService_ValidateProject_NotFound(t *testing.T) {
	ctx := context.Background()

	projects := new(MockProjectRepository)
	questions := new(MockQuestionRepository)
	projects.On("GetByID", ctx, uint(404)).Return(nil, assert.AnError)

	service := NewValidationService(projects, questions, nil, nil, testLogger(), time.Minute)

	_, err := service.ValidateProject(ctx, 404)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestValidationService_ValidateQuestions(t *testing.T) {
	service := NewValidationService(nil, nil, nil, nil, testLogger(), time.Minute)

	report := service.ValidateQuestions(context.Background(), []models.Question{
		{ID: "Q1", Mode: models.ModeList, Text: "Pick one"},
	})

	assert.False(t, report.Ready)
}

func TestValidationService_CheckExportReady(t *testing.T) {
	ctx := context.Background()

	project := &models.Project{ID: 3, Name: "Gate", Version: 1}
	records := []models.QuestionRecord{
		mustRecord(t, 3, 0, models.Question{ID: "Q1", Mode: models.ModeList, Text: "Pick one"}),
	}

	projects := new(MockProjectRepository)
	questions := new(MockQuestionRepository)
	projects.On("GetByID", ctx, uint(3)).Return(project, nil)
	questions.On("ListByProject", ctx, uint(3)).Return(records, nil)

	service := NewValidationService(projects, questions, nil, nil, testLogger(), time.Minute)

	err := service.CheckExportReady(ctx, 3)

	var ruleErr *BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "PROJECT-NOT-EXPORT-READY", ruleErr.Rule)
}

func TestValidationService_InvalidateCache(t *testing.T) {
	ctx := context.Background()

	cacheSvc := newMemoryCache()
	assert.NoError(t, cacheSvc.Set(ctx, "validation:report:5:1", "a", 0))
	assert.NoError(t, cacheSvc.Set(ctx, "validation:report:5:2", "b", 0))
	assert.NoError(t, cacheSvc.Set(ctx, "validation:report:6:1", "c", 0))

	service := NewValidationService(nil, nil, cacheSvc, nil, testLogger(), time.Minute)

	assert.NoError(t, service.InvalidateCache(ctx, 5))

	assert.NotContains(t, cacheSvc.entries, "validation:report:5:1")
	assert.NotContains(t, cacheSvc.entries, "validation:report:5:2")
	assert.Contains(t, cacheSvc.entries, "validation:report:6:1")
}
