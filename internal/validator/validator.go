package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/qgen-labs/survey-logic-service/internal/logic"
	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// Validator is the central validator instance combining struct-tag validation
// with the project-level checks.
type Validator struct {
	structValidator   *validator.Validate
	projectValidator  *ProjectValidator
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance.
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		projectValidator:  NewProjectValidator(),
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Project returns the project validator.
func (v *Validator) Project() *ProjectValidator {
	return v.projectValidator
}

// Question returns the single-question validator.
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions.
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_mode", validateQuestionMode)
	validate.RegisterValidation("condition_mode", validateConditionMode)
	validate.RegisterValidation("logic_operator", validateLogicOperator)
	validate.RegisterValidation("condition_operator", validateConditionOperator)
	validate.RegisterValidation("question_id", validateQuestionID)
	validate.RegisterValidation("project_status", validateProjectStatus)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validateQuestionMode(fl validator.FieldLevel) bool {
	return models.ValidModes[models.QuestionMode(fl.Field().String())]
}

func validateConditionMode(fl validator.FieldLevel) bool {
	switch models.ConditionMode(fl.Field().String()) {
	case models.ConditionNone, models.ConditionShowIf, models.ConditionHideIf:
		return true
	}
	return false
}

func validateLogicOperator(fl validator.FieldLevel) bool {
	switch models.LogicOperator(fl.Field().String()) {
	case models.LogicAnd, models.LogicOr:
		return true
	}
	return false
}

func validateConditionOperator(fl validator.FieldLevel) bool {
	return logic.KnownOperator(models.Operator(fl.Field().String()))
}

var questionIDPattern = regexp.MustCompile(`^(S|Q|QC_|SQC_|TXT_)[A-Za-z0-9_]+$`)

func validateQuestionID(fl validator.FieldLevel) bool {
	return questionIDPattern.MatchString(fl.Field().String())
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch models.ProjectStatus(fl.Field().String()) {
	case models.ProjectDraft, models.ProjectActive, models.ProjectArchived:
		return true
	}
	return false
}
