package logic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// Evaluation errors. They never escape the package boundary: each layer folds
// them into its documented default (false for a single rule, true for a
// condition set and for visibility). The asymmetry is deliberate: a broken
// rule must not pass, but a broken rule set must not hide a question.
var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrNotANumber      = errors.New("value is not numeric")
)

// EvaluateRule evaluates one condition rule against the current responses.
// Incomplete rules (no source question, no operator, no usable operand
// values) evaluate to true so that a half-edited condition never hides a
// question; internal evaluation errors fold to false.
func EvaluateRule(rule models.ConditionRule, responses models.ResponseMap, questions []models.Question) bool {
	result, err := evaluateRule(rule, responses)
	if err != nil {
		return false
	}
	return result
}

func evaluateRule(rule models.ConditionRule, responses models.ResponseMap) (bool, error) {
	// Incomplete rules are normal during editing.
	if strings.TrimSpace(rule.SourceQID) == "" || rule.Operator == "" {
		return true, nil
	}

	source := responses[rule.SourceQID]

	// Emptiness checks come first: they ignore Values and apply even when no
	// response exists.
	switch rule.Operator {
	case models.OpIsEmpty:
		return models.IsBlank(source), nil
	case models.OpIsNotEmpty:
		return !models.IsBlank(source), nil
	}

	// Without a response every remaining operator fails.
	if models.IsAbsent(source) {
		return false, nil
	}

	targets := nonEmptyValues(rule.Values)
	if len(targets) == 0 {
		// Operand not filled in yet; treat like an incomplete rule.
		return true, nil
	}

	switch rule.Operator {
	case models.OpEquals:
		return matchesAnyString(source, targets), nil

	case models.OpNotEquals:
		return !matchesAnyString(source, targets), nil

	case models.OpGreater, models.OpGreaterEq, models.OpLess, models.OpLessEq:
		return compareAsNumber(source, targets[0], rule.Operator)

	case models.OpIn:
		return membershipTest(source, targets), nil

	case models.OpNotIn:
		return !membershipTest(source, targets), nil

	case models.OpContains:
		return containsAny(source, targets), nil

	case models.OpNotContains:
		return !containsAny(source, targets), nil

	case models.OpBetween:
		return evaluateBetween(source, targets, rule.Value2)

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOperator, rule.Operator)
	}
}

// EvaluateConditions evaluates a full condition set. A missing set, mode
// "none" or an empty rule list means always-true. Multiple rules combine with
// the configured logic; anything other than OR defaults to AND.
func EvaluateConditions(set *models.ConditionSet, responses models.ResponseMap, questions []models.Question) bool {
	if set == nil || set.Mode == models.ConditionNone || len(set.Rules) == 0 {
		return true
	}

	if len(set.Rules) == 1 {
		return EvaluateRule(set.Rules[0], responses, questions)
	}

	if set.Logic == models.LogicOr {
		for _, rule := range set.Rules {
			if EvaluateRule(rule, responses, questions) {
				return true
			}
		}
		return false
	}

	for _, rule := range set.Rules {
		if !EvaluateRule(rule, responses, questions) {
			return false
		}
	}
	return true
}

// ShouldShowQuestion decides whether a question is currently visible. A
// condition set whose rules are all placeholders (no source question chosen
// yet) never hides anything, and an unknown condition mode shows the
// question.
func ShouldShowQuestion(q *models.Question, responses models.ResponseMap, questions []models.Question) bool {
	if q == nil || q.Conditions == nil || q.Conditions.Mode == models.ConditionNone {
		return true
	}
	if len(q.Conditions.Rules) == 0 {
		return true
	}

	complete := false
	for _, rule := range q.Conditions.Rules {
		if strings.TrimSpace(rule.SourceQID) != "" {
			complete = true
			break
		}
	}
	if !complete {
		return true
	}

	result := EvaluateConditions(q.Conditions, responses, questions)

	switch q.Conditions.Mode {
	case models.ConditionShowIf:
		return result
	case models.ConditionHideIf:
		return !result
	default:
		return true
	}
}

// VisibilityMap resolves visibility for every question in one pass.
func VisibilityMap(questions []models.Question, responses models.ResponseMap) map[string]bool {
	visible := make(map[string]bool, len(questions))
	for i := range questions {
		visible[questions[i].ID] = ShouldShowQuestion(&questions[i], responses, questions)
	}
	return visible
}

// ----- coercion helpers -----
//
// Codes are compared as strings by the equality and membership operators but
// as floats by the ordering operators. The two helpers below keep that
// asymmetry explicit instead of hiding it in one polymorphic comparator.

// compareAsString renders any response value the way the equality operators
// see it. Slices join with commas, floats drop trailing zeros.
func compareAsString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	if elems, ok := asSlice(v); ok {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = compareAsString(e)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// compareAsNumber applies an ordering operator after coercing both sides to
// floats. Non-numeric input is an evaluation error (folded to false).
func compareAsNumber(source interface{}, target string, op models.Operator) (bool, error) {
	a, err := toNumber(source)
	if err != nil {
		return false, err
	}
	b, err := parseNumber(target)
	if err != nil {
		return false, err
	}

	switch op {
	case models.OpGreater:
		return a > b, nil
	case models.OpGreaterEq:
		return a >= b, nil
	case models.OpLess:
		return a < b, nil
	case models.OpLessEq:
		return a <= b, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
}

func evaluateBetween(source interface{}, targets []string, value2 string) (bool, error) {
	n, err := toNumber(source)
	if err != nil {
		return false, err
	}
	min, err := parseNumber(targets[0])
	if err != nil {
		return false, err
	}
	upper := value2
	if upper == "" && len(targets) > 1 {
		upper = targets[1]
	}
	max, err := parseNumber(upper)
	if err != nil {
		return false, err
	}
	return n >= min && n <= max, nil
}

func matchesAnyString(source interface{}, targets []string) bool {
	s := compareAsString(source)
	for _, t := range targets {
		if s == t {
			return true
		}
	}
	return false
}

// membershipTest handles the in/not_in operators: multi-select responses
// match when any selected value is among the targets, scalars match when the
// value itself is.
func membershipTest(source interface{}, targets []string) bool {
	if elems, ok := asSlice(source); ok {
		for _, e := range elems {
			if matchesAnyString(e, targets) {
				return true
			}
		}
		return false
	}
	return matchesAnyString(source, targets)
}

func containsAny(source interface{}, targets []string) bool {
	s := strings.ToLower(compareAsString(source))
	for _, t := range targets {
		if strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func nonEmptyValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]interface{}, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

func toNumber(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return parseNumber(t)
	}
	return 0, fmt.Errorf("%w: %T", ErrNotANumber, v)
}

// parseNumber coerces a string operand to a float the way the editor's
// inputs do: surrounding whitespace is ignored and a trailing unit suffix
// ("18+", "65 years") does not invalidate the leading number.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNotANumber
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	end := 0
	seenDigit := false
	for i, r := range s {
		if r == '+' || r == '-' {
			if i != 0 {
				break
			}
		} else if r == '.' {
			if strings.ContainsRune(s[:i], '.') {
				break
			}
		} else if r < '0' || r > '9' {
			break
		} else {
			seenDigit = true
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return f, nil
}
