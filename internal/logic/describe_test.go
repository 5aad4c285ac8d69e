package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

func TestDescribeRule(t *testing.T) {
	questions := []models.Question{
		{ID: "S1", Text: "What is your age group?", Mode: models.ModeList, Options: []models.Option{
			{Code: "1", Label: "18-24"},
			{Code: "2", Label: "25-34"},
		}},
		{ID: "AGE", Text: "How old are you?", Mode: models.ModeNumeric},
	}

	t.Run("option codes resolve to labels", func(t *testing.T) {
		got := DescribeRule(rule("S1", models.OpEquals, "2"), questions)
		assert.Equal(t, "What is your age group? equals 25-34", got)
	})

	t.Run("unknown codes stay verbatim", func(t *testing.T) {
		got := DescribeRule(rule("S1", models.OpEquals, "99"), questions)
		assert.Equal(t, "What is your age group? equals 99", got)
	})

	t.Run("multiple values join with commas", func(t *testing.T) {
		got := DescribeRule(rule("S1", models.OpIn, "1", "2"), questions)
		assert.Equal(t, "What is your age group? contains any of 18-24, 25-34", got)
	})

	t.Run("between renders both bounds", func(t *testing.T) {
		r := models.ConditionRule{SourceQID: "AGE", Operator: models.OpBetween, Values: []string{"18"}, Value2: "65"}
		assert.Equal(t, "How old are you? is between 18 and 65", DescribeRule(r, questions))
	})

	t.Run("emptiness checks have no operand", func(t *testing.T) {
		assert.Equal(t, "How old are you? is empty", DescribeRule(rule("AGE", models.OpIsEmpty), questions))
	})

	t.Run("unknown source falls back to the id", func(t *testing.T) {
		got := DescribeRule(rule("Q99", models.OpEquals, "1"), questions)
		assert.Equal(t, "Q99 equals 1", got)
	})
}

func TestDescribeConditionSet(t *testing.T) {
	questions := []models.Question{
		{ID: "Q1", Text: "First?"},
		{ID: "Q2", Text: "Second?"},
	}

	t.Run("empty sets describe as unset", func(t *testing.T) {
		assert.Equal(t, "No conditions set", DescribeConditionSet(nil, questions))
		assert.Equal(t, "No conditions set", DescribeConditionSet(models.NewConditionSet(), questions))
		assert.Equal(t, "No conditions set", DescribeConditionSet(&models.ConditionSet{Mode: models.ConditionShowIf}, questions))
	})

	t.Run("show_if joins with AND", func(t *testing.T) {
		set := &models.ConditionSet{
			Mode:  models.ConditionShowIf,
			Logic: models.LogicAnd,
			Rules: []models.ConditionRule{rule("Q1", models.OpEquals, "1"), rule("Q2", models.OpEquals, "2")},
		}
		assert.Equal(t, "Show if: First? equals 1 AND Second? equals 2", DescribeConditionSet(set, questions))
	})

	t.Run("hide_if joins with OR", func(t *testing.T) {
		set := &models.ConditionSet{
			Mode:  models.ConditionHideIf,
			Logic: models.LogicOr,
			Rules: []models.ConditionRule{rule("Q1", models.OpEquals, "1"), rule("Q2", models.OpEquals, "2")},
		}
		assert.Equal(t, "Hide if: First? equals 1 OR Second? equals 2", DescribeConditionSet(set, questions))
	})
}

func TestOptionsForConditions(t *testing.T) {
	t.Run("explicit options win", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Options: []models.Option{{Code: "a", Label: "A"}}, Scale: &models.ScaleConfig{Points: 5}}
		options := OptionsForConditions(q)
		assert.Equal(t, []models.Option{{Code: "a", Label: "A"}}, options)
	})

	t.Run("grid columns get 1-based codes", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Grid: &models.GridConfig{Cols: []string{"Poor", "Good"}}}
		options := OptionsForConditions(q)
		assert.Equal(t, []models.Option{{Code: "1", Label: "Poor"}, {Code: "2", Label: "Good"}}, options)
	})

	t.Run("scale points use labels where provided", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Scale: &models.ScaleConfig{Points: 3, Labels: []string{"Low", "", "High"}}}
		options := OptionsForConditions(q)
		assert.Equal(t, []models.Option{
			{Code: "1", Label: "Low"},
			{Code: "2", Label: "2"},
			{Code: "3", Label: "High"},
		}, options)
	})

	t.Run("numeric questions get presets", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Mode: models.ModeNumeric}
		options := OptionsForConditions(q)
		assert.Len(t, options, 5)
		assert.Equal(t, "0", options[0].Code)
	})

	t.Run("repeated columns synthesize options", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Type: "repeated", Repeated: &models.RepeatedConfig{Columns: []string{"Brand A", ""}}}
		options := OptionsForConditions(q)
		assert.Equal(t, []models.Option{
			{Code: "1", Label: "Brand A"},
			{Code: "2", Label: "Column 2"},
		}, options)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Options: []models.Option{{Code: "a", Label: "A"}}}
		options := OptionsForConditions(q)
		options[0].Label = "mutated"
		assert.Equal(t, "A", q.Options[0].Label)
	})

	t.Run("nothing to offer", func(t *testing.T) {
		assert.Nil(t, OptionsForConditions(nil))
		assert.Nil(t, OptionsForConditions(&models.Question{ID: "Q1", Mode: models.ModeText}))
	})
}

func TestAvailableSourceQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: "S1", Text: "Age group?", Mode: models.ModeList, Options: []models.Option{{Code: "1", Label: "18-24"}}},
		{ID: "", Text: "Draft without id"},
		{ID: "Q1", Text: "", Type: "numeric"},
		{ID: "Q2", Text: "Target"},
	}

	sources := AvailableSourceQuestions(3, questions)

	assert.Len(t, sources, 2, "only earlier questions with ids qualify")
	assert.Equal(t, "S1", sources[0].ID)
	assert.Equal(t, "Age group?", sources[0].Text)
	assert.Equal(t, SupportFull, sources[0].Support)
	assert.Equal(t, "Q1", sources[1].ID)
	assert.Equal(t, "Untitled Question", sources[1].Text)
	assert.Equal(t, "numeric", sources[1].Kind)

	t.Run("first question has no sources", func(t *testing.T) {
		assert.Empty(t, AvailableSourceQuestions(0, questions))
	})

	t.Run("index past the end is clamped", func(t *testing.T) {
		assert.Len(t, AvailableSourceQuestions(100, questions), 3)
	})
}

func TestValidateRule(t *testing.T) {
	questions := []models.Question{{ID: "Q1", Text: "First?"}}

	t.Run("valid rule has no problems", func(t *testing.T) {
		assert.Empty(t, ValidateRule(rule("Q1", models.OpEquals, "1"), questions))
	})

	t.Run("empty rule reports source and operator", func(t *testing.T) {
		problems := ValidateRule(models.ConditionRule{}, questions)
		assert.Equal(t, []string{"Source question is required", "Operator is required"}, problems)
	})

	t.Run("unknown source", func(t *testing.T) {
		problems := ValidateRule(rule("Q99", models.OpEquals, "1"), questions)
		assert.Equal(t, []string{"Source question not found"}, problems)
	})

	t.Run("unknown operator", func(t *testing.T) {
		problems := ValidateRule(rule("Q1", "~=", "1"), questions)
		assert.Contains(t, problems, "Invalid operator")
	})

	t.Run("missing operand", func(t *testing.T) {
		problems := ValidateRule(rule("Q1", models.OpEquals, ""), questions)
		assert.Equal(t, []string{"Comparison value is required"}, problems)
	})

	t.Run("emptiness checks need no operand", func(t *testing.T) {
		assert.Empty(t, ValidateRule(rule("Q1", models.OpIsEmpty), questions))
	})

	t.Run("between needs both bounds", func(t *testing.T) {
		r := models.ConditionRule{SourceQID: "Q1", Operator: models.OpBetween, Values: []string{"18"}}
		problems := ValidateRule(r, questions)
		assert.Equal(t, []string{"Between operator requires two values"}, problems)

		r.Value2 = "65"
		assert.Empty(t, ValidateRule(r, questions))
	})
}
