package validator

import (
	"fmt"
	"strings"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// QuestionValidator rejects structurally broken questions at write time.
// It is stricter than the project validator in shape (a bad config is an
// error, never a warning) but narrower in scope: it looks at one question
// in isolation and never at cross-question references.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator.
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.ID) == "" {
		return fmt.Errorf("question id is required")
	}

	if question.Mode != "" && !models.ValidModes[question.Mode] {
		return fmt.Errorf("unsupported question mode: %s", question.Mode)
	}

	if err := v.validateConditions(question.Conditions); err != nil {
		return err
	}

	if err := v.validateValidationRule(question.Validation); err != nil {
		return err
	}

	switch question.Mode {
	case models.ModeList:
		return v.validateListConfig(question)
	case models.ModeNumeric:
		return v.validateNumericConfig(question)
	case models.ModeTable:
		return v.validateTableConfig(question)
	case models.ModeOpenEnd:
		return v.validateOpenEndConfig(question)
	}
	return nil
}

// ValidateBatch validates multiple questions.
func (v *QuestionValidator) ValidateBatch(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i := range questions {
		if err := v.ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

// validateConditions checks the shape of a condition set. Incomplete rules
// are allowed (the editor saves them mid-edit); unknown modes and logic
// operators are not.
func (v *QuestionValidator) validateConditions(conditions *models.ConditionSet) error {
	if conditions == nil {
		return nil
	}

	switch conditions.Mode {
	case "", models.ConditionNone, models.ConditionShowIf, models.ConditionHideIf:
	default:
		return fmt.Errorf("unsupported condition mode: %s", conditions.Mode)
	}

	switch conditions.Logic {
	case "", models.LogicAnd, models.LogicOr:
	default:
		return fmt.Errorf("unsupported logic operator: %s", conditions.Logic)
	}

	return nil
}

func (v *QuestionValidator) validateValidationRule(rule *models.ValidationRule) error {
	if rule == nil {
		return nil
	}

	switch rule.Type {
	case models.ValidationSumEqualsQID:
		if strings.TrimSpace(rule.Target) == "" {
			return fmt.Errorf("sum_equals_qid validation requires a target question")
		}
	case models.ValidationPerOptionRange, models.ValidationForcePerColumn:
	default:
		return fmt.Errorf("unsupported validation type: %s", rule.Type)
	}

	return nil
}

func (v *QuestionValidator) validateListConfig(question *models.Question) error {
	codes := make(map[string]bool, len(question.Options))
	for i, option := range question.Options {
		if strings.TrimSpace(option.Code) == "" {
			return fmt.Errorf("option %d is missing a code", i+1)
		}
		if codes[option.Code] {
			return fmt.Errorf("duplicate option code: %s", option.Code)
		}
		codes[option.Code] = true

		if r := option.ValidationRange; r != nil {
			if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
				return fmt.Errorf("option %s range minimum cannot exceed maximum", option.Code)
			}
			for _, d := range r.Decimals {
				if d < 0 || d > 9 {
					return fmt.Errorf("option %s has invalid decimal digit: %d", option.Code, d)
				}
			}
		}
	}
	return nil
}

func (v *QuestionValidator) validateNumericConfig(question *models.Question) error {
	n := question.Numeric
	if n == nil {
		return nil
	}

	if !validNumericUnits[n.Unit] {
		return fmt.Errorf("unsupported numeric unit: %s", n.Unit)
	}

	if n.Min != nil && n.Max != nil && *n.Min > *n.Max {
		return fmt.Errorf("numeric minimum cannot exceed maximum")
	}

	return nil
}

func (v *QuestionValidator) validateTableConfig(question *models.Question) error {
	g := question.Grid
	if g == nil {
		return fmt.Errorf("table questions require a grid configuration")
	}

	for i, row := range g.Rows {
		if strings.TrimSpace(row) == "" {
			return fmt.Errorf("grid row %d cannot be empty", i+1)
		}
	}
	for i, col := range g.Cols {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("grid column %d cannot be empty", i+1)
		}
	}

	if len(g.Cols) > 0 && g.ColumnSource != "" {
		return fmt.Errorf("grid cannot define both columns and a column source")
	}

	return nil
}

func (v *QuestionValidator) validateOpenEndConfig(question *models.Question) error {
	o := question.Open
	if o == nil {
		return nil
	}

	switch o.LimitKind {
	case "", "words", "characters", "sentences":
	default:
		return fmt.Errorf("unsupported open end limit kind: %s", o.LimitKind)
	}

	if o.Min != nil && *o.Min < 0 {
		return fmt.Errorf("open end minimum cannot be negative")
	}
	if o.Max != nil && *o.Max < 0 {
		return fmt.Errorf("open end maximum cannot be negative")
	}
	if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
		return fmt.Errorf("open end minimum cannot exceed maximum")
	}

	return nil
}
