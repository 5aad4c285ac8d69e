package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

func conditional(id string, sources ...string) models.Question {
	rules := make([]models.ConditionRule, len(sources))
	for i, s := range sources {
		rules[i] = rule(s, models.OpEquals, "1")
	}
	return models.Question{ID: id, Conditions: &models.ConditionSet{
		Mode:  models.ConditionShowIf,
		Logic: models.LogicAnd,
		Rules: rules,
	}}
}

func TestBuildDependencyGraph(t *testing.T) {
	questions := []models.Question{
		{ID: "Q1"},
		conditional("Q2", "Q1"),
		conditional("Q3", "Q1", "Q2", "Q1"), // duplicate source collapses
		conditional("Q4", "", "  "),         // placeholder rules produce no entry
	}

	graph := BuildDependencyGraph(questions)

	assert.Equal(t, map[string][]string{
		"Q2": {"Q1"},
		"Q3": {"Q1", "Q2"},
	}, graph)
}

func TestCircularDependencies(t *testing.T) {
	t.Run("acyclic chain is clean", func(t *testing.T) {
		questions := []models.Question{
			{ID: "Q1"},
			conditional("Q2", "Q1"),
			conditional("Q3", "Q2"),
		}
		assert.Empty(t, CircularDependencies(questions))
	})

	t.Run("every member of a cycle is flagged", func(t *testing.T) {
		questions := []models.Question{
			conditional("Q1", "Q3"),
			conditional("Q2", "Q1"),
			conditional("Q3", "Q2"),
		}
		assert.Equal(t, []string{"Q1", "Q2", "Q3"}, CircularDependencies(questions))
	})

	t.Run("self reference is a cycle", func(t *testing.T) {
		questions := []models.Question{conditional("Q1", "Q1")}
		assert.Equal(t, []string{"Q1"}, CircularDependencies(questions))
	})

	t.Run("feeding into a cycle flags the feeder too", func(t *testing.T) {
		questions := []models.Question{
			conditional("Q1", "Q2"),
			conditional("Q2", "Q3"),
			conditional("Q3", "Q2"),
		}
		assert.Equal(t, []string{"Q1", "Q2", "Q3"}, CircularDependencies(questions))
	})

	t.Run("references to unknown questions are not cycles", func(t *testing.T) {
		questions := []models.Question{conditional("Q1", "Q99")}
		assert.Empty(t, CircularDependencies(questions))
	})
}

func TestBuildMockResponses(t *testing.T) {
	questions := []models.Question{
		{ID: "S1", Mode: models.ModeList, Options: []models.Option{{Code: "3", Label: "C"}, {Code: "1", Label: "A"}}},
		{ID: "S2", Mode: models.ModeList, Options: []models.Option{{Code: "", Label: "Unset"}}},
		{ID: "N1", Mode: models.ModeNumeric},
		{ID: "T1", Mode: models.ModeOpenEnd},
		{ID: ""},
	}

	responses := BuildMockResponses(questions)

	assert.Equal(t, models.ResponseMap{
		"S1": "3",
		"S2": "1",
		"N1": "25",
		"T1": "Sample response",
	}, responses)
}
