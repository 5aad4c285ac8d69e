package logic

import (
	"strconv"
	"strings"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// DescribeRule renders one condition rule as editor preview text, e.g.
// "How old are you? is between 18 and 65". Option codes resolve to their
// labels when the source question exposes options.
func DescribeRule(rule models.ConditionRule, questions []models.Question) string {
	source := models.FindQuestion(questions, rule.SourceQID)

	questionText := rule.SourceQID
	if source != nil && strings.TrimSpace(source.Text) != "" {
		questionText = source.Text
	}

	operatorText := OperatorLabel(rule.Operator)

	switch rule.Operator {
	case models.OpIsEmpty, models.OpIsNotEmpty:
		return questionText + " " + operatorText

	case models.OpBetween:
		lower := ""
		if len(rule.Values) > 0 {
			lower = rule.Values[0]
		}
		return questionText + " is between " + lower + " and " + rule.Value2
	}

	values := nonEmptyValues(rule.Values)
	labels := values
	if source != nil {
		if options := OptionsForConditions(source); len(options) > 0 {
			labels = make([]string, len(values))
			for i, v := range values {
				labels[i] = v
				for _, opt := range options {
					if opt.Code == v {
						labels[i] = opt.Label
						break
					}
				}
			}
		}
	}

	return questionText + " " + operatorText + " " + strings.Join(labels, ", ")
}

// DescribeConditionSet renders a question's full condition configuration.
// Returns "No conditions set" for empty or disabled sets.
func DescribeConditionSet(set *models.ConditionSet, questions []models.Question) string {
	if set == nil || set.Mode == models.ConditionNone || len(set.Rules) == 0 {
		return "No conditions set"
	}

	modeText := "Show if"
	if set.Mode == models.ConditionHideIf {
		modeText = "Hide if"
	}

	logicText := " AND "
	if set.Logic == models.LogicOr {
		logicText = " OR "
	}

	descriptions := make([]string, len(set.Rules))
	for i, rule := range set.Rules {
		descriptions[i] = DescribeRule(rule, questions)
	}

	return modeText + ": " + strings.Join(descriptions, logicText)
}

// OptionsForConditions returns the selectable values a source question offers
// to the condition editor. Explicit options win; grid columns, scale points,
// numeric presets and repeated columns are synthesized with 1-based codes.
func OptionsForConditions(q *models.Question) []models.Option {
	if q == nil {
		return nil
	}

	if len(q.Options) > 0 {
		options := make([]models.Option, len(q.Options))
		copy(options, q.Options)
		return options
	}

	if q.Grid != nil && len(q.Grid.Cols) > 0 {
		options := make([]models.Option, len(q.Grid.Cols))
		for i, col := range q.Grid.Cols {
			options[i] = models.Option{Code: strconv.Itoa(i + 1), Label: col}
		}
		return options
	}

	if q.Scale != nil && q.Scale.Points > 0 {
		options := make([]models.Option, q.Scale.Points)
		for i := 0; i < q.Scale.Points; i++ {
			label := strconv.Itoa(i + 1)
			if i < len(q.Scale.Labels) && q.Scale.Labels[i] != "" {
				label = q.Scale.Labels[i]
			}
			options[i] = models.Option{Code: strconv.Itoa(i + 1), Label: label}
		}
		return options
	}

	switch q.Kind() {
	case "numeric", "number":
		presets := []string{"0", "1", "5", "10", "100"}
		options := make([]models.Option, len(presets))
		for i, p := range presets {
			options[i] = models.Option{Code: p, Label: p}
		}
		return options

	case "repeated":
		if q.Repeated == nil {
			return nil
		}
		options := make([]models.Option, len(q.Repeated.Columns))
		for i, col := range q.Repeated.Columns {
			label := col
			if label == "" {
				label = "Column " + strconv.Itoa(i+1)
			}
			options[i] = models.Option{Code: strconv.Itoa(i + 1), Label: label}
		}
		return options
	}

	return nil
}

// SourceQuestion is a condition-source candidate offered by the editor.
type SourceQuestion struct {
	ID      string          `json:"id"`
	Text    string          `json:"text"`
	Kind    string          `json:"kind"`
	Options []models.Option `json:"options"`
	Support SupportLevel    `json:"support"`
}

// AvailableSourceQuestions lists the questions a rule at the given position
// may reference: strictly earlier questions that have an id.
func AvailableSourceQuestions(currentIndex int, questions []models.Question) []SourceQuestion {
	if currentIndex > len(questions) {
		currentIndex = len(questions)
	}
	sources := make([]SourceQuestion, 0, currentIndex)
	for i := 0; i < currentIndex; i++ {
		q := &questions[i]
		if strings.TrimSpace(q.ID) == "" {
			continue
		}
		text := q.Text
		if strings.TrimSpace(text) == "" {
			text = "Untitled Question"
		}
		sources = append(sources, SourceQuestion{
			ID:      q.ID,
			Text:    text,
			Kind:    q.Kind(),
			Options: OptionsForConditions(q),
			Support: ConditionalSupport(q),
		})
	}
	return sources
}

// ValidateRule checks one rule for completeness and correctness; used by the
// condition editor before a rule is saved. Returns field-level problems in a
// fixed order, empty when the rule is valid.
func ValidateRule(rule models.ConditionRule, questions []models.Question) []string {
	var problems []string

	if strings.TrimSpace(rule.SourceQID) == "" {
		problems = append(problems, "Source question is required")
	} else if models.FindQuestion(questions, rule.SourceQID) == nil {
		problems = append(problems, "Source question not found")
	}

	if rule.Operator == "" {
		problems = append(problems, "Operator is required")
	} else if !KnownOperator(rule.Operator) {
		problems = append(problems, "Invalid operator")
	}

	switch rule.Operator {
	case models.OpBetween:
		if len(nonEmptyValues(rule.Values)) == 0 || rule.Value2 == "" {
			problems = append(problems, "Between operator requires two values")
		}
	case models.OpIsEmpty, models.OpIsNotEmpty, "":
		// No operand required.
	default:
		if len(nonEmptyValues(rule.Values)) == 0 {
			problems = append(problems, "Comparison value is required")
		}
	}

	return problems
}
