// Package logic implements the conditional-logic engine of the questionnaire
// builder: unified question typing, the comparison-operator catalog, rule and
// condition-set evaluation, visibility resolution, dependency analysis and
// human-readable condition descriptions. Everything here is pure: functions
// take the question list and response snapshot as explicit arguments, never
// mutate them, and never return errors to callers in normal operation.
package logic

import "github.com/qgen-labs/survey-logic-service/internal/models"

// UnifiedType collapses every raw question kind into one of four semantic
// value types used to pick comparison operators and coercion rules.
type UnifiedType string

const (
	TypeChoice  UnifiedType = "choice"
	TypeNumber  UnifiedType = "number"
	TypeText    UnifiedType = "text"
	TypeComplex UnifiedType = "complex"
)

// unifiedTypes maps raw type/mode tags to their unified type. Anything not
// listed is complex.
var unifiedTypes = map[string]UnifiedType{
	"single":      TypeChoice,
	"multi":       TypeChoice,
	"scale":       TypeChoice,
	"grid_single": TypeChoice,
	"grid_multi":  TypeChoice,
	"ranking":     TypeChoice,
	"repeated":    TypeChoice,

	"numeric": TypeNumber,
	"slider":  TypeNumber,

	"text":     TypeText,
	"textarea": TypeText,
	"open":     TypeText,

	"table":     TypeComplex,
	"matrix":    TypeComplex,
	"drag_drop": TypeComplex,
}

// Classify returns the unified type of a question. Unknown tags (and nil
// questions) classify as complex; this function never fails.
func Classify(q *models.Question) UnifiedType {
	if q == nil {
		return TypeComplex
	}
	return ClassifyKind(q.Kind())
}

// ClassifyKind classifies a bare type/mode tag.
func ClassifyKind(kind string) UnifiedType {
	if t, ok := unifiedTypes[kind]; ok {
		return t
	}
	return TypeComplex
}

// SupportLevel describes how completely a question kind participates in
// conditional logic. Used by the editor to annotate source-question pickers.
type SupportLevel string

const (
	SupportFull       SupportLevel = "full"
	SupportPartial    SupportLevel = "partial"
	SupportComingSoon SupportLevel = "coming_soon"
)

// ConditionalSupport reports the support level for a question's kind.
func ConditionalSupport(q *models.Question) SupportLevel {
	switch q.Kind() {
	case "single", "multi", "scale", "grid_single", "grid_multi":
		return SupportFull
	case "numeric", "text", "textarea", "open", "repeated":
		return SupportPartial
	default:
		return SupportComingSoon
	}
}
