package models

// QuestionMode is the authoring-level mode of a question. Every persisted
// question carries exactly one of these; the more granular Type tag (single,
// grid_multi, slider, ...) refines it for rendering and conditional logic.
type QuestionMode string

const (
	ModeList    QuestionMode = "list"
	ModeNumeric QuestionMode = "numeric"
	ModeTable   QuestionMode = "table"
	ModeOpenEnd QuestionMode = "open_end"
	ModeText    QuestionMode = "text"
)

// ValidModes is the closed set of authoring modes accepted by the validator.
var ValidModes = map[QuestionMode]bool{
	ModeList:    true,
	ModeNumeric: true,
	ModeTable:   true,
	ModeOpenEnd: true,
	ModeText:    true,
}

// ConditionMode controls the polarity of a question's condition set.
type ConditionMode string

const (
	ConditionNone   ConditionMode = "none"
	ConditionShowIf ConditionMode = "show_if"
	ConditionHideIf ConditionMode = "hide_if"
)

// LogicOperator combines multiple condition rules.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// Operator is a single comparison operator used by condition rules.
type Operator string

const (
	OpEquals      Operator = "=="
	OpNotEquals   Operator = "!="
	OpGreater     Operator = ">"
	OpGreaterEq   Operator = ">="
	OpLess        Operator = "<"
	OpLessEq      Operator = "<="
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpIsEmpty     Operator = "is_empty"
	OpIsNotEmpty  Operator = "is_not_empty"
	OpBetween     Operator = "between"
)

// ValidationRange restricts the amount entered alongside an option
// (per_option_range validation).
type ValidationRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Decimals []int    `json:"decimals,omitempty"`
}

// Option is one answer choice of a list-style question. Code is the value
// stored in responses, Label the display text.
type Option struct {
	Code            string           `json:"code"`
	Label           string           `json:"label"`
	Terminate       bool             `json:"terminate,omitempty"`
	Exclusive       bool             `json:"exclusive,omitempty"`
	ValidationRange *ValidationRange `json:"validation_range,omitempty"`
}

// ConditionRule is one atomic comparison: "the response to SourceQID
// <Operator> Values". Rules are created empty by the editor and filled in
// incrementally, so any field may be missing at evaluation time.
type ConditionRule struct {
	SourceQID string   `json:"source_qid"`
	Operator  Operator `json:"operator"`
	Values    []string `json:"values"`
	Value2    string   `json:"value2,omitempty"` // upper bound for "between"
}

// ConditionSet is a question's full visibility configuration.
type ConditionSet struct {
	Mode  ConditionMode   `json:"mode"`
	Logic LogicOperator   `json:"logic"`
	Rules []ConditionRule `json:"rules"`
}

// NewConditionRule returns an empty rule in the shape the editor creates.
func NewConditionRule() ConditionRule {
	return ConditionRule{Operator: OpEquals, Values: []string{""}}
}

// NewConditionSet returns the default (no conditions) set.
func NewConditionSet() *ConditionSet {
	return &ConditionSet{Mode: ConditionNone, Logic: LogicAnd, Rules: []ConditionRule{}}
}

// GridConfig configures table and grid questions. Cols may be empty when
// ColumnSource names a list question whose options supply the columns.
type GridConfig struct {
	Rows         []string `json:"rows,omitempty"`
	Cols         []string `json:"cols,omitempty"`
	ColumnSource string   `json:"column_source,omitempty"`
}

// ScaleConfig configures Likert-style scale questions.
type ScaleConfig struct {
	Points int      `json:"points"`
	Labels []string `json:"labels,omitempty"`
}

// NumericConfig configures numeric questions. Placeholder is kept loosely
// typed on purpose: imported projects sometimes carry numbers here and the
// validator flags that instead of rejecting the payload.
type NumericConfig struct {
	Unit        string      `json:"unit,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	Placeholder interface{} `json:"placeholder,omitempty"`
}

// OpenEndConfig configures open-ended questions.
type OpenEndConfig struct {
	LimitKind string `json:"limit_kind,omitempty"` // words, characters, sentences
	Min       *int   `json:"min,omitempty"`
	Max       *int   `json:"max,omitempty"`
}

// RepeatedConfig configures repeated-option questions.
type RepeatedConfig struct {
	Columns []string `json:"columns,omitempty"`
}

// TabPlanExports carries the crosstab export settings relevant to validation.
type TabPlanExports struct {
	NetsText string `json:"nets_text,omitempty"`
}

// ExportsConfig groups per-question export settings.
type ExportsConfig struct {
	TabPlan *TabPlanExports `json:"tab_plan,omitempty"`
}

// ValidationRule is an optional response-validation descriptor attached to a
// question (sum_equals_qid, per_option_range, force_per_column).
type ValidationRule struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"` // question id for sum_equals_qid
}

const (
	ValidationSumEqualsQID   = "sum_equals_qid"
	ValidationPerOptionRange = "per_option_range"
	ValidationForcePerColumn = "force_per_column"
)

// Question is a single survey item as the logic engine and validator see it.
// The slice order of a project's questions is its display order, and condition
// rules may only reference earlier questions (enforced by the validator; the
// evaluator stays permissive).
type Question struct {
	ID         string          `json:"id"`
	Type       string          `json:"type,omitempty"` // granular tag: single, multi, scale, grid_single, ...
	Mode       QuestionMode    `json:"mode,omitempty"`
	Text       string          `json:"text"`
	Options    []Option        `json:"options,omitempty"`
	Conditions *ConditionSet   `json:"conditions,omitempty"`
	Validation *ValidationRule `json:"validation,omitempty"`
	Grid       *GridConfig     `json:"grid,omitempty"`
	Scale      *ScaleConfig    `json:"scale,omitempty"`
	Numeric    *NumericConfig  `json:"numeric,omitempty"`
	Open       *OpenEndConfig  `json:"open,omitempty"`
	Repeated   *RepeatedConfig `json:"repeated,omitempty"`
	Exports    *ExportsConfig  `json:"exports,omitempty"`
}

// Kind resolves the single type discriminator for a question: the granular
// Type tag when present, otherwise the authoring Mode. Resolved once here so
// downstream code never re-derives it from raw fields.
func (q *Question) Kind() string {
	if q.Type != "" {
		return q.Type
	}
	return string(q.Mode)
}

// FindQuestion returns the question with the given id, or nil.
func FindQuestion(questions []Question, id string) *Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}

// QuestionIndex returns the position of the question with the given id,
// or -1 when absent.
func QuestionIndex(questions []Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}
