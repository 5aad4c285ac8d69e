package logic

import "github.com/qgen-labs/survey-logic-service/internal/models"

// OperatorSet maps operators to their human-readable labels for one question
// kind. Treated as immutable; callers get fresh copies.
type OperatorSet map[models.Operator]string

// operatorLabels is the full catalog of operator display labels.
var operatorLabels = map[models.Operator]string{
	models.OpEquals:      "equals",
	models.OpNotEquals:   "not equals",
	models.OpGreater:     "greater than",
	models.OpGreaterEq:   "greater than or equal",
	models.OpLess:        "less than",
	models.OpLessEq:      "less than or equal",
	models.OpIn:          "contains any of",
	models.OpNotIn:       "does not contain any of",
	models.OpContains:    "text contains",
	models.OpNotContains: "text does not contain",
	models.OpIsEmpty:     "is empty",
	models.OpIsNotEmpty:  "is not empty",
	models.OpBetween:     "is between",
}

var (
	baseOperators    = []models.Operator{models.OpEquals, models.OpNotEquals, models.OpIsEmpty, models.OpIsNotEmpty}
	numericOperators = []models.Operator{models.OpGreater, models.OpGreaterEq, models.OpLess, models.OpLessEq, models.OpBetween}
	textOperators    = []models.Operator{models.OpContains, models.OpNotContains}
	multiOperators   = []models.Operator{models.OpIn, models.OpNotIn}
)

// OperatorLabel returns the display label for an operator, falling back to
// the raw token for unknown operators.
func OperatorLabel(op models.Operator) string {
	if label, ok := operatorLabels[op]; ok {
		return label
	}
	return string(op)
}

// KnownOperator reports whether op is part of the catalog.
func KnownOperator(op models.Operator) bool {
	_, ok := operatorLabels[op]
	return ok
}

// OperatorsFor returns the legal operators for a unified type. Every type
// gets the base set (equality and emptiness checks); choice types add
// membership, number types add ordering and between, text types add substring
// matching. Complex types get only the base set.
func OperatorsFor(t UnifiedType) OperatorSet {
	switch t {
	case TypeChoice:
		return buildSet(baseOperators, multiOperators)
	case TypeNumber:
		return buildSet(baseOperators, numericOperators)
	case TypeText:
		return buildSet(baseOperators, textOperators)
	default:
		return buildSet(baseOperators)
	}
}

// OperatorsForKind returns the operator set for a raw question kind. More
// granular than OperatorsFor: grid_single and ranking answer both as choices
// and as numeric positions, so they get the union of both sets.
func OperatorsForKind(kind string) OperatorSet {
	switch kind {
	case "single", "scale", "multi", "grid_multi", "repeated":
		return buildSet(baseOperators, multiOperators)
	case "numeric", "number", "slider":
		return buildSet(baseOperators, numericOperators)
	case "text", "textarea", "open":
		return buildSet(baseOperators, textOperators)
	case "grid_single", "ranking":
		return buildSet(baseOperators, multiOperators, numericOperators)
	default:
		return buildSet(baseOperators)
	}
}

func buildSet(groups ...[]models.Operator) OperatorSet {
	set := make(OperatorSet)
	for _, group := range groups {
		for _, op := range group {
			set[op] = operatorLabels[op]
		}
	}
	return set
}
