package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// ResponseValidationResult is the outcome of checking one question's
// validation rule against the current responses. Nil results mean the rule
// does not apply or there is not enough input yet.
type ResponseValidationResult struct {
	Valid      bool               `json:"valid"`
	Severity   apperrors.Severity `json:"severity"`
	Message    string             `json:"message,omitempty"`
	CurrentSum *float64           `json:"current_sum,omitempty"`
	TargetSum  *float64           `json:"target_sum,omitempty"`
}

// ValidateResponse runs the question's attached validation rule, if any,
// against the response map. Supported rule types are sum_equals_qid,
// per_option_range and force_per_column; anything else returns nil.
func ValidateResponse(q *models.Question, responses models.ResponseMap) *ResponseValidationResult {
	if q == nil || q.Validation == nil {
		return nil
	}

	switch q.Validation.Type {
	case models.ValidationSumEqualsQID:
		return validateSumEquals(q, responses)
	case models.ValidationPerOptionRange:
		return validatePerOptionRange(q, responses)
	case models.ValidationForcePerColumn:
		if q.Mode == models.ModeTable {
			return validateForcePerColumn(q, responses)
		}
	}
	return nil
}

// validateSumEquals checks that the per-option amounts entered in fields named
// "{qid}_{code}" add up to the response of the target question. A field that
// does not parse as a number poisons the sum, so the check fails rather than
// silently skipping it.
func validateSumEquals(q *models.Question, responses models.ResponseMap) *ResponseValidationResult {
	targetSum := coerceNumber(responses[q.Validation.Target])

	currentSum := 0.0
	for _, opt := range q.Options {
		currentSum += coerceNumber(responses[q.ID+"_"+opt.Code])
	}

	valid := currentSum == targetSum
	severity := apperrors.SeverityInfo
	if !valid {
		severity = apperrors.SeverityError
	}

	return &ResponseValidationResult{
		Valid:    valid,
		Severity: severity,
		Message: fmt.Sprintf("The sum must equal %s. Current sum: %s",
			formatAmount(targetSum), formatAmount(currentSum)),
		CurrentSum: &currentSum,
		TargetSum:  &targetSum,
	}
}

// validatePerOptionRange checks the amount entered alongside a selected
// option ("{qid}_amount") against that option's validation range.
func validatePerOptionRange(q *models.Question, responses models.ResponseMap) *ResponseValidationResult {
	selectedCode := stringOf(responses[q.ID])
	amount, ok := parseAmount(responses[q.ID+"_amount"])
	if selectedCode == "" || !ok {
		return nil
	}

	var rule *models.ValidationRange
	for _, opt := range q.Options {
		if opt.Code == selectedCode {
			rule = opt.ValidationRange
			break
		}
	}
	if rule == nil {
		return nil
	}

	if (rule.Min != nil && amount < *rule.Min) || (rule.Max != nil && amount > *rule.Max) {
		return &ResponseValidationResult{
			Valid:    false,
			Severity: apperrors.SeverityError,
			Message: fmt.Sprintf("Amount must be between %s and %s",
				formatBound(rule.Min), formatBound(rule.Max)),
		}
	}

	if len(rule.Decimals) > 0 {
		decimalPart := math.Mod(amount, 1)
		allowed := false
		for _, d := range rule.Decimals {
			if decimalPart == float64(d)/10 {
				allowed = true
				break
			}
		}
		if !allowed {
			parts := make([]string, len(rule.Decimals))
			for i, d := range rule.Decimals {
				parts[i] = strconv.Itoa(d)
			}
			return &ResponseValidationResult{
				Valid:    false,
				Severity: apperrors.SeverityError,
				Message:  fmt.Sprintf("Amount must end in .%s", strings.Join(parts, " or .")),
			}
		}
	}

	return &ResponseValidationResult{Valid: true, Severity: apperrors.SeverityInfo}
}

// validateForcePerColumn checks that every grid column has at least one row
// answered. Cell fields are named "{qid}_{row}_{colIndex}" with a zero-based
// column index.
func validateForcePerColumn(q *models.Question, responses models.ResponseMap) *ResponseValidationResult {
	grid := q.Grid
	if grid == nil {
		grid = &models.GridConfig{}
	}

	var missing []string
	for colIndex, col := range grid.Cols {
		answered := false
		for _, row := range grid.Rows {
			field := fmt.Sprintf("%s_%s_%d", q.ID, row, colIndex)
			if !models.IsBlank(responses[field]) {
				answered = true
				break
			}
		}
		if !answered {
			missing = append(missing, col)
		}
	}

	if len(missing) == 0 {
		return &ResponseValidationResult{
			Valid:    true,
			Severity: apperrors.SeverityInfo,
			Message:  "All columns completed",
		}
	}
	return &ResponseValidationResult{
		Valid:    false,
		Severity: apperrors.SeverityError,
		Message:  "Please answer for: " + strings.Join(missing, ", "),
	}
}

// coerceNumber converts a response value to a number for summation. Absent
// and empty values count as zero; unparseable strings become NaN so the sum
// comparison fails.
func coerceNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// parseAmount extracts a leading decimal number from a response value, the
// way a text input's content is read. Returns false when no number is found.
func parseAmount(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		end := 0
		seenDigit := false
		for i, r := range s {
			if r >= '0' && r <= '9' {
				seenDigit = true
				end = i + 1
				continue
			}
			if (r == '-' || r == '+') && i == 0 {
				end = i + 1
				continue
			}
			if r == '.' && !strings.ContainsRune(s[:i], '.') {
				end = i + 1
				continue
			}
			break
		}
		if !seenDigit {
			return 0, false
		}
		n, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringOf(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatAmount(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func formatBound(p *float64) string {
	if p == nil {
		return "null"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
