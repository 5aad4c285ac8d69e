package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

type sampleRequest struct {
	Mode     string `json:"mode" validate:"omitempty,question_mode"`
	CondMode string `json:"cond_mode" validate:"omitempty,condition_mode"`
	Logic    string `json:"logic" validate:"omitempty,logic_operator"`
	Operator string `json:"operator" validate:"omitempty,condition_operator"`
	QID      string `json:"qid" validate:"omitempty,question_id"`
	Status   string `json:"status" validate:"omitempty,project_status"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	t.Run("all valid", func(t *testing.T) {
		req := sampleRequest{
			Mode:     "list",
			CondMode: "show_if",
			Logic:    "AND",
			Operator: "between",
			QID:      "QC_12",
			Status:   "Active",
		}
		assert.NoError(t, v.ValidateStruct(&req))
	})

	t.Run("empty struct passes with omitempty", func(t *testing.T) {
		assert.NoError(t, v.ValidateStruct(&sampleRequest{}))
	})

	cases := []struct {
		name string
		req  sampleRequest
	}{
		{"bad mode", sampleRequest{Mode: "carousel"}},
		{"bad condition mode", sampleRequest{CondMode: "maybe_if"}},
		{"bad logic", sampleRequest{Logic: "XOR"}},
		{"bad operator", sampleRequest{Operator: "~="}},
		{"bad question id", sampleRequest{QID: "12abc"}},
		{"bad status", sampleRequest{Status: "Paused"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, v.ValidateStruct(&tc.req))
		})
	}
}

func TestValidator_QuestionIDPattern(t *testing.T) {
	v := New()

	valid := []string{"S1", "Q1", "Q10b", "QC_1", "SQC_2", "TXT_intro"}
	for _, id := range valid {
		assert.NoError(t, v.ValidateStruct(&sampleRequest{QID: id}), "id %q", id)
	}

	invalid := []string{"1Q", "q1 ", "X1", "Q-1"}
	for _, id := range invalid {
		assert.Error(t, v.ValidateStruct(&sampleRequest{QID: id}), "id %q", id)
	}
}

func TestValidator_Accessors(t *testing.T) {
	v := New()

	assert.NotNil(t, v.Project())
	assert.NotNil(t, v.Question())

	report := v.Project().ValidateReport([]models.Question{
		{ID: "Q1", Mode: models.ModeOpenEnd, Text: "Comments?"},
	})
	assert.True(t, report.Ready)
}
