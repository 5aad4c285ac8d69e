package validator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
	"github.com/qgen-labs/survey-logic-service/internal/logic"
	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// ProjectValidator runs the full battery of project-level checks over a
// question list. Each pass scans independently and appends typed issues; the
// pass order is fixed so reports are deterministic. The validator never
// mutates its input and never fails; problems come back as data.
type ProjectValidator struct{}

// NewProjectValidator creates a new project validator.
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{}
}

// Validate runs every pass in order and concatenates the issues.
func (v *ProjectValidator) Validate(questions []models.Question) []apperrors.ValidationIssue {
	issues := []apperrors.ValidationIssue{}

	issues = append(issues, v.checkModes(questions)...)
	issues = append(issues, v.checkDuplicateIDs(questions)...)
	issues = append(issues, v.checkQuestionText(questions)...)
	issues = append(issues, v.checkOptions(questions)...)
	issues = append(issues, v.checkNumericConfig(questions)...)
	issues = append(issues, v.checkOpenEndConfig(questions)...)
	issues = append(issues, v.checkTableConfig(questions)...)
	issues = append(issues, v.checkConditionReferences(questions)...)
	issues = append(issues, v.checkScaleLabels(questions)...)
	issues = append(issues, v.checkTerminateNets(questions)...)
	issues = append(issues, v.checkQuestionFlow(questions)...)
	issues = append(issues, v.checkLogicalConsistency(questions)...)
	issues = append(issues, v.checkSurveyLength(questions)...)
	issues = append(issues, v.checkAccessibility(questions)...)
	issues = append(issues, v.checkBrandCompliance(questions)...)

	return issues
}

// ValidateReport runs Validate and buckets the result by severity.
func (v *ProjectValidator) ValidateReport(questions []models.Question) *apperrors.ValidationReport {
	return apperrors.NewValidationReport(v.Validate(questions))
}

// Pass 1: every question's mode must be one of the closed authoring set.
func (v *ProjectValidator) checkModes(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Mode != "" && !models.ValidModes[q.Mode] {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				fmt.Sprintf("Invalid mode %q (must be list | numeric | table | open_end | text)", q.Mode)))
		}
	}
	return issues
}

// Pass 2: duplicate question ids, one error per duplicated id.
func (v *ProjectValidator) checkDuplicateIDs(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	counts := make(map[string]int)
	var order []string
	for i := range questions {
		id := questions[i].ID
		if id == "" {
			continue
		}
		if counts[id] == 1 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, id,
			"Duplicate question ID: "+id))
	}
	return issues
}

// Pass 3: question text is required.
func (v *ProjectValidator) checkQuestionText(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Text) == "" {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"Question text is required"))
		}
	}
	return issues
}

// Pass 4: option integrity. A list question without options fails outright
// and skips the remaining per-question option checks; otherwise codes must be
// unique, numeric codes should not have gaps (first gap only) and every
// option needs a label.
func (v *ProjectValidator) checkOptions(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Mode == models.ModeList && len(q.Options) == 0 {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"List questions must have at least one option"))
			continue
		}

		var codes []string
		for _, opt := range q.Options {
			if opt.Code != "" {
				codes = append(codes, opt.Code)
			}
		}

		if dupes := duplicateStrings(codes); len(dupes) > 0 {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"Duplicate option codes: "+strings.Join(dupes, ", ")))
		}

		if gap := firstCodeGap(codes); gap != nil {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
				fmt.Sprintf("Code gap between %s and %s", formatCode(gap[0]), formatCode(gap[1]))))
		}

		for idx, opt := range q.Options {
			if strings.TrimSpace(opt.Label) == "" {
				issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
					fmt.Sprintf("Option %d missing label", idx+1)))
			}
		}
	}
	return issues
}

var validNumericUnits = map[string]bool{
	"seconds": true, "minutes": true, "hours": true, "days": true,
	"weeks": true, "months": true, "years": true, "count": true,
	"currency": true, "percentage": true, "custom": true, "": true,
}

// Pass 5: numeric configuration.
func (v *ProjectValidator) checkNumericConfig(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		isNumeric := q.Mode == models.ModeNumeric || strings.HasPrefix(q.Type, "numeric")
		if !isNumeric || q.Numeric == nil {
			continue
		}
		n := q.Numeric

		if !validNumericUnits[n.Unit] {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				fmt.Sprintf("Invalid numeric unit %q", n.Unit)))
		}

		if n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"Numeric minimum cannot be greater than maximum"))
		}

		if n.Placeholder != nil {
			if _, ok := n.Placeholder.(string); !ok {
				issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
					"Numeric placeholder should be text"))
			}
		}
	}
	return issues
}

var validLimitKinds = map[string]bool{"words": true, "characters": true, "sentences": true}

// Pass 6: open-end configuration.
func (v *ProjectValidator) checkOpenEndConfig(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Mode != models.ModeOpenEnd || q.Open == nil {
			continue
		}

		if q.Open.LimitKind != "" && !validLimitKinds[q.Open.LimitKind] {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
				fmt.Sprintf("Invalid open limit kind %q", q.Open.LimitKind)))
		}

		if q.Open.Min != nil && q.Open.Max != nil && *q.Open.Min > *q.Open.Max {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
				"Open-end minimum cannot be greater than maximum"))
		}
	}
	return issues
}

// Pass 7: table questions need rows, and either columns or a column source.
func (v *ProjectValidator) checkTableConfig(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Mode != models.ModeTable {
			continue
		}
		grid := q.Grid
		if grid == nil {
			grid = &models.GridConfig{}
		}

		if len(grid.Rows) == 0 {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"Table questions must have at least one row"))
		}

		if len(grid.Cols) == 0 && grid.ColumnSource == "" {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
				"Table questions must have columns or a column source"))
		}
	}
	return issues
}

// Pass 8: condition rules may only reference earlier questions, and the
// referenced question must exist. The evaluator tolerates both defects; this
// is where they surface.
func (v *ProjectValidator) checkConditionReferences(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Conditions == nil {
			continue
		}
		for _, rule := range q.Conditions.Rules {
			if rule.SourceQID == "" {
				continue
			}
			refIndex := models.QuestionIndex(questions, rule.SourceQID)
			if refIndex > i {
				issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
					"Condition references future question "+rule.SourceQID))
			}
			if refIndex == -1 {
				issues = append(issues, apperrors.NewIssue(apperrors.SeverityError, q.ID,
					"Condition references unknown question "+rule.SourceQID))
			}
		}
	}
	return issues
}

// Pass 9: scale label counts must match the point count.
func (v *ProjectValidator) checkScaleLabels(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		if q.Scale == nil || q.Scale.Points == 0 || len(q.Scale.Labels) == 0 {
			continue
		}
		if len(q.Scale.Labels) != q.Scale.Points {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
				fmt.Sprintf("%d scale points but %d labels provided", q.Scale.Points, len(q.Scale.Labels))))
		}
	}
	return issues
}

// Pass 10: terminate options conflict with nets text in the tab plan.
func (v *ProjectValidator) checkTerminateNets(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]
		hasTerminate := false
		for _, opt := range q.Options {
			if opt.Terminate {
				hasTerminate = true
				break
			}
		}
		if !hasTerminate {
			continue
		}
		if q.Exports != nil && q.Exports.TabPlan != nil &&
			strings.TrimSpace(q.Exports.TabPlan.NetsText) != "" {
			issues = append(issues, apperrors.NewIssue(apperrors.SeverityWarning, q.ID,
				"Question has terminate options but also has nets text"))
		}
	}
	return issues
}

// Pass 11: flow checks, circular dependencies plus a reachability scaffold.
func (v *ProjectValidator) checkQuestionFlow(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue

	for _, id := range logic.CircularDependencies(questions) {
		issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityError, id,
			apperrors.IssueCircularDependency,
			"Question has circular dependency in conditional logic"))
	}

	issues = append(issues, v.findUnreachableQuestions(questions)...)

	return issues
}

// findUnreachableQuestions is a placeholder for reachability analysis: a
// question whose show_if can never be satisfied given the terminate options
// and conditions before it is unreachable. Detecting that requires evaluating
// conditions over the reachable response space, which is not implemented.
// TODO: implement constraint propagation over option codes so unreachable
// questions can be flagged.
func (v *ProjectValidator) findUnreachableQuestions(questions []models.Question) []apperrors.ValidationIssue {
	return nil
}

// Pass 12: cross-question logical consistency.
func (v *ProjectValidator) checkLogicalConsistency(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue

	for i := range questions {
		q := &questions[i]
		if q.Grid == nil || q.Grid.ColumnSource == "" {
			continue
		}
		source := models.FindQuestion(questions, q.Grid.ColumnSource)
		if source != nil && source.Mode != models.ModeList {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityWarning, q.ID,
				apperrors.IssueInconsistentReference,
				fmt.Sprintf("Column source %q is not a list question", q.Grid.ColumnSource)))
		}
	}

	var scalePoints []int
	for i := range questions {
		if questions[i].Scale != nil && questions[i].Scale.Points > 0 {
			scalePoints = append(scalePoints, questions[i].Scale.Points)
		}
	}
	if len(scalePoints) > 1 {
		mixed := false
		for _, p := range scalePoints[1:] {
			if p != scalePoints[0] {
				mixed = true
				break
			}
		}
		if mixed {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityInfo, "",
				apperrors.IssueScaleInconsistency,
				fmt.Sprintf("Survey uses mixed scale lengths (%d-point and others). Consider standardizing.", scalePoints[0])))
		}
	}

	return issues
}

// Pass 13: estimated completion time and question count.
func (v *ProjectValidator) checkSurveyLength(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue

	minutes := 0.0
	for i := range questions {
		q := &questions[i]
		minutes += 0.5
		switch q.Mode {
		case models.ModeList:
			minutes += float64(len(q.Options)) * 0.1
		case models.ModeTable:
			if q.Grid != nil {
				minutes += float64(len(q.Grid.Rows)*len(q.Grid.Cols)) * 0.15
			}
		case models.ModeOpenEnd:
			minutes++
		}
	}

	if minutes > 15 {
		issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityWarning, "",
			apperrors.IssueSurveyLength,
			fmt.Sprintf("Survey estimated to take %d minutes. Consider reducing length for better completion rates.", int(math.Round(minutes)))))
	}

	if len(questions) > 50 {
		issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityWarning, "",
			apperrors.IssueQuestionCount,
			fmt.Sprintf("Survey has %d questions. High question count may impact completion rates.", len(questions))))
	}

	return issues
}

// Pass 14: accessibility. Deliberately overlaps pass 3/4 on missing text and
// labels; this pass runs independently so the panel's accessibility filter
// shows the full picture on its own.
func (v *ProjectValidator) checkAccessibility(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue
	for i := range questions {
		q := &questions[i]

		if strings.TrimSpace(q.Text) == "" {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityError, q.ID,
				apperrors.IssueAccessibility,
				"Question missing text (required for screen readers)"))
		}

		if len(q.Text) > 200 {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityInfo, q.ID,
				apperrors.IssueAccessibility,
				"Question text is quite long. Consider breaking into shorter segments for better readability."))
		}

		for idx, opt := range q.Options {
			if strings.TrimSpace(opt.Label) == "" {
				issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityError, q.ID,
					apperrors.IssueAccessibility,
					fmt.Sprintf("Option %d missing label (required for screen readers)", idx+1)))
			}
		}

		// Only a fully absent label list counts as visual-only; an
		// authored empty list is left alone.
		if q.Scale != nil && q.Scale.Points > 0 && q.Scale.Labels == nil {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityInfo, q.ID,
				apperrors.IssueAccessibility,
				"Scale question relies on visual cues only. Consider adding text labels for accessibility."))
		}
	}
	return issues
}

// preferredTerms maps standard satisfaction-scale wording to the non-standard
// synonyms we flag.
var preferredTerms = []struct {
	preferred    string
	alternatives []string
}{
	{"very satisfied", []string{"extremely satisfied", "highly satisfied"}},
	{"somewhat satisfied", []string{"moderately satisfied", "quite satisfied"}},
	{"not at all satisfied", []string{"completely dissatisfied", "totally dissatisfied"}},
}

var informalWords = []string{"awesome", "cool", "great", "amazing"}

// Pass 15: brand and terminology compliance.
func (v *ProjectValidator) checkBrandCompliance(questions []models.Question) []apperrors.ValidationIssue {
	var issues []apperrors.ValidationIssue

	inconsistentTerms := false
	for i := range questions {
		for _, opt := range questions[i].Options {
			label := strings.ToLower(opt.Label)
			for _, term := range preferredTerms {
				for _, alt := range term.alternatives {
					if strings.Contains(label, alt) {
						inconsistentTerms = true
					}
				}
			}
		}
	}
	if inconsistentTerms {
		issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityInfo, "",
			apperrors.IssueBrandCompliance,
			"Consider using consistent terminology across questions for better brand alignment."))
	}

	for i := range questions {
		q := &questions[i]
		text := strings.ToLower(q.Text)
		var found []string
		for _, word := range informalWords {
			if strings.Contains(text, word) {
				found = append(found, word)
			}
		}
		if len(found) > 0 {
			issues = append(issues, apperrors.NewTypedIssue(apperrors.SeverityInfo, q.ID,
				apperrors.IssueBrandCompliance,
				fmt.Sprintf("Consider more formal language: found %q which may not align with professional tone.", strings.Join(found, ", "))))
		}
	}

	return issues
}

// ----- option helpers -----

func duplicateStrings(values []string) []string {
	seen := make(map[string]int)
	var dupes []string
	for _, v := range values {
		if seen[v] == 1 {
			dupes = append(dupes, v)
		}
		seen[v]++
	}
	return dupes
}

// firstCodeGap returns the first pair of adjacent sorted numeric codes more
// than 1 apart, or nil. Non-numeric codes are ignored.
func firstCodeGap(codes []string) *[2]float64 {
	if len(codes) < 2 {
		return nil
	}
	var nums []float64
	for _, c := range codes {
		if n, err := strconv.ParseFloat(c, 64); err == nil {
			nums = append(nums, n)
		}
	}
	sort.Float64s(nums)
	for i := 1; i < len(nums); i++ {
		if nums[i]-nums[i-1] > 1 {
			return &[2]float64{nums[i-1], nums[i]}
		}
	}
	return nil
}

func formatCode(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
