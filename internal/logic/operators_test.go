package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		kind string
		want UnifiedType
	}{
		{"single", TypeChoice},
		{"multi", TypeChoice},
		{"scale", TypeChoice},
		{"grid_single", TypeChoice},
		{"grid_multi", TypeChoice},
		{"ranking", TypeChoice},
		{"numeric", TypeNumber},
		{"slider", TypeNumber},
		{"text", TypeText},
		{"textarea", TypeText},
		{"open", TypeText},
		{"table", TypeComplex},
		{"matrix", TypeComplex},
		{"drag_drop", TypeComplex},
		{"hologram", TypeComplex}, // unknown kinds are complex
		{"", TypeComplex},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyKind(tc.kind), "kind %q", tc.kind)
	}

	t.Run("nil question is complex", func(t *testing.T) {
		assert.Equal(t, TypeComplex, Classify(nil))
	})

	t.Run("granular type wins over mode", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Type: "slider", Mode: models.ModeList}
		assert.Equal(t, TypeNumber, Classify(q))
	})

	t.Run("mode is the fallback", func(t *testing.T) {
		q := &models.Question{ID: "Q1", Mode: models.ModeNumeric}
		assert.Equal(t, TypeNumber, Classify(q))
	})
}

func TestConditionalSupport(t *testing.T) {
	assert.Equal(t, SupportFull, ConditionalSupport(&models.Question{ID: "Q1", Type: "single"}))
	assert.Equal(t, SupportFull, ConditionalSupport(&models.Question{ID: "Q1", Type: "grid_multi"}))
	assert.Equal(t, SupportPartial, ConditionalSupport(&models.Question{ID: "Q1", Type: "numeric"}))
	assert.Equal(t, SupportPartial, ConditionalSupport(&models.Question{ID: "Q1", Type: "repeated"}))
	assert.Equal(t, SupportComingSoon, ConditionalSupport(&models.Question{ID: "Q1", Type: "drag_drop"}))
}

func TestOperatorsFor(t *testing.T) {
	t.Run("choice gets base plus membership", func(t *testing.T) {
		ops := OperatorsFor(TypeChoice)
		assert.Contains(t, ops, models.OpEquals)
		assert.Contains(t, ops, models.OpIsEmpty)
		assert.Contains(t, ops, models.OpIn)
		assert.Contains(t, ops, models.OpNotIn)
		assert.NotContains(t, ops, models.OpGreater)
		assert.NotContains(t, ops, models.OpContains)
	})

	t.Run("number gets base plus ordering", func(t *testing.T) {
		ops := OperatorsFor(TypeNumber)
		assert.Contains(t, ops, models.OpGreater)
		assert.Contains(t, ops, models.OpBetween)
		assert.NotContains(t, ops, models.OpIn)
	})

	t.Run("text gets base plus substring", func(t *testing.T) {
		ops := OperatorsFor(TypeText)
		assert.Contains(t, ops, models.OpContains)
		assert.Contains(t, ops, models.OpNotContains)
		assert.NotContains(t, ops, models.OpBetween)
	})

	t.Run("complex gets only the base set", func(t *testing.T) {
		ops := OperatorsFor(TypeComplex)
		assert.Len(t, ops, 4)
		assert.Contains(t, ops, models.OpEquals)
		assert.Contains(t, ops, models.OpNotEquals)
		assert.Contains(t, ops, models.OpIsEmpty)
		assert.Contains(t, ops, models.OpIsNotEmpty)
	})
}

func TestOperatorsForKind(t *testing.T) {
	t.Run("grid_single and ranking get the union", func(t *testing.T) {
		for _, kind := range []string{"grid_single", "ranking"} {
			ops := OperatorsForKind(kind)
			assert.Contains(t, ops, models.OpIn, "kind %q", kind)
			assert.Contains(t, ops, models.OpBetween, "kind %q", kind)
			assert.Contains(t, ops, models.OpIsEmpty, "kind %q", kind)
		}
	})

	t.Run("labels come from the catalog", func(t *testing.T) {
		ops := OperatorsForKind("numeric")
		assert.Equal(t, "is between", ops[models.OpBetween])
	})

	t.Run("each call returns a fresh set", func(t *testing.T) {
		a := OperatorsForKind("single")
		b := OperatorsForKind("single")
		a[models.OpEquals] = "mutated"
		assert.Equal(t, "equals", b[models.OpEquals])
	})
}

func TestOperatorLabel(t *testing.T) {
	assert.Equal(t, "equals", OperatorLabel(models.OpEquals))
	assert.Equal(t, "contains any of", OperatorLabel(models.OpIn))
	assert.Equal(t, "~=", OperatorLabel("~="))
}

func TestKnownOperator(t *testing.T) {
	assert.True(t, KnownOperator(models.OpBetween))
	assert.False(t, KnownOperator("~="))
	assert.False(t, KnownOperator(""))
}
