package errors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Severity classifies validation issues. Errors block export, warnings should
// be reviewed, info is advisory only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one finding of the project validator. Issues are data,
// never thrown: the validator returns them in bulk and the validation panel
// groups and filters them. QuestionID is empty for survey-level issues.
type ValidationIssue struct {
	Severity   Severity `json:"severity"`
	QuestionID string   `json:"question_id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Message    string   `json:"message"`
}

// Issue types used for panel filtering.
const (
	IssueCircularDependency    = "circular_dependency"
	IssueInconsistentReference = "inconsistent_reference"
	IssueScaleInconsistency    = "scale_inconsistency"
	IssueSurveyLength          = "survey_length"
	IssueQuestionCount         = "question_count"
	IssueAccessibility         = "accessibility"
	IssueBrandCompliance       = "brand_compliance"
)

// NewIssue creates a question-scoped validation issue.
func NewIssue(severity Severity, questionID, message string) ValidationIssue {
	return ValidationIssue{Severity: severity, QuestionID: questionID, Message: message}
}

// NewTypedIssue creates a validation issue with a panel filter type.
func NewTypedIssue(severity Severity, questionID, issueType, message string) ValidationIssue {
	return ValidationIssue{Severity: severity, QuestionID: questionID, Type: issueType, Message: message}
}

// ValidationReport groups a validator run by severity for the panel and for
// the export gate.
type ValidationReport struct {
	Ready    bool              `json:"ready"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
	Info     []ValidationIssue `json:"info"`
	Issues   []ValidationIssue `json:"issues"`
}

// NewValidationReport buckets issues by severity. Ready means no errors:
// warnings and info never block export.
func NewValidationReport(issues []ValidationIssue) *ValidationReport {
	report := &ValidationReport{Issues: issues}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			report.Errors = append(report.Errors, issue)
		case SeverityWarning:
			report.Warnings = append(report.Warnings, issue)
		default:
			report.Info = append(report.Info, issue)
		}
	}
	report.Ready = len(report.Errors) == 0
	return report
}

// ValidationError represents a single field-level validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validatorErr, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validatorErr {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "numeric":
		return "must be a number"
	case "alphanum":
		return "must contain only letters and numbers"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	// Custom validators
	case "question_mode":
		return "must be a valid question mode (list, numeric, table, open_end, text)"
	case "condition_mode":
		return "must be none, show_if or hide_if"
	case "logic_operator":
		return "must be AND or OR"
	case "condition_operator":
		return "must be a valid comparison operator"
	case "question_id":
		return "should follow the S1/Q1 naming convention"
	case "project_status":
		return "must be a valid project status (Draft, Active, Archived)"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
