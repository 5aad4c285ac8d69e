package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
	"github.com/qgen-labs/survey-logic-service/internal/models"
)

func TestValidateResponse_NoRule(t *testing.T) {
	assert.Nil(t, ValidateResponse(nil, models.ResponseMap{}))
	assert.Nil(t, ValidateResponse(&models.Question{ID: "Q1"}, models.ResponseMap{}))
	assert.Nil(t, ValidateResponse(&models.Question{ID: "Q1",
		Validation: &models.ValidationRule{Type: "teleport"}}, models.ResponseMap{}))
}

func TestValidateResponse_SumEquals(t *testing.T) {
	q := &models.Question{
		ID:   "Q5",
		Mode: models.ModeList,
		Options: []models.Option{
			{Code: "1", Label: "Rent"},
			{Code: "2", Label: "Food"},
			{Code: "3", Label: "Other"},
		},
		Validation: &models.ValidationRule{Type: models.ValidationSumEqualsQID, Target: "Q4"},
	}

	t.Run("matching sum is valid", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q4":   "100",
			"Q5_1": "60",
			"Q5_2": "30",
			"Q5_3": "10",
		})
		assert.NotNil(t, result)
		assert.True(t, result.Valid)
		assert.Equal(t, apperrors.SeverityInfo, result.Severity)
		assert.Equal(t, 100.0, *result.CurrentSum)
		assert.Equal(t, 100.0, *result.TargetSum)
	})

	t.Run("mismatch is an error with both sums in the message", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q4":   "100",
			"Q5_1": "60",
		})
		assert.False(t, result.Valid)
		assert.Equal(t, apperrors.SeverityError, result.Severity)
		assert.Equal(t, "The sum must equal 100. Current sum: 60", result.Message)
	})

	t.Run("missing fields count as zero", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q5_1": "0"})
		assert.True(t, result.Valid, "empty sum equals missing target of zero")
	})

	t.Run("unparseable field poisons the sum", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q4":   "100",
			"Q5_1": "sixty",
			"Q5_2": "40",
		})
		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "Current sum: NaN")
	})

	t.Run("numeric response values sum directly", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q4":   100,
			"Q5_1": 60.0,
			"Q5_2": 40,
		})
		assert.True(t, result.Valid)
	})
}

func TestValidateResponse_PerOptionRange(t *testing.T) {
	min, max := 10.0, 100.0
	q := &models.Question{
		ID:   "Q7",
		Mode: models.ModeList,
		Options: []models.Option{
			{Code: "1", Label: "Card", ValidationRange: &models.ValidationRange{Min: &min, Max: &max}},
			{Code: "2", Label: "Cash"},
		},
		Validation: &models.ValidationRule{Type: models.ValidationPerOptionRange},
	}

	t.Run("amount inside the range", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q7": "1", "Q7_amount": "50"})
		assert.NotNil(t, result)
		assert.True(t, result.Valid)
	})

	t.Run("amount below minimum", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q7": "1", "Q7_amount": "5"})
		assert.False(t, result.Valid)
		assert.Equal(t, "Amount must be between 10 and 100", result.Message)
	})

	t.Run("amount above maximum", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q7": "1", "Q7_amount": "250"})
		assert.False(t, result.Valid)
	})

	t.Run("amount with currency suffix parses", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q7": "1", "Q7_amount": "50 EUR"})
		assert.True(t, result.Valid)
	})

	t.Run("selected option without a range passes silently", func(t *testing.T) {
		assert.Nil(t, ValidateResponse(q, models.ResponseMap{"Q7": "2", "Q7_amount": "5"}))
	})

	t.Run("insufficient input returns nil", func(t *testing.T) {
		assert.Nil(t, ValidateResponse(q, models.ResponseMap{"Q7": "1"}))
		assert.Nil(t, ValidateResponse(q, models.ResponseMap{"Q7_amount": "50"}))
		assert.Nil(t, ValidateResponse(q, models.ResponseMap{"Q7": "1", "Q7_amount": "abc"}))
	})

	t.Run("decimal restriction", func(t *testing.T) {
		q := &models.Question{
			ID:   "Q8",
			Mode: models.ModeList,
			Options: []models.Option{
				{Code: "1", Label: "A", ValidationRange: &models.ValidationRange{Decimals: []int{0, 5}}},
			},
			Validation: &models.ValidationRule{Type: models.ValidationPerOptionRange},
		}

		result := ValidateResponse(q, models.ResponseMap{"Q8": "1", "Q8_amount": "2.5"})
		assert.True(t, result.Valid)

		result = ValidateResponse(q, models.ResponseMap{"Q8": "1", "Q8_amount": "3"})
		assert.True(t, result.Valid)

		result = ValidateResponse(q, models.ResponseMap{"Q8": "1", "Q8_amount": "2.3"})
		assert.False(t, result.Valid)
		assert.Equal(t, "Amount must end in .0 or .5", result.Message)
	})

	t.Run("open-ended bounds format as null", func(t *testing.T) {
		q := &models.Question{
			ID:   "Q9",
			Mode: models.ModeList,
			Options: []models.Option{
				{Code: "1", Label: "A", ValidationRange: &models.ValidationRange{Min: &min}},
			},
			Validation: &models.ValidationRule{Type: models.ValidationPerOptionRange},
		}
		result := ValidateResponse(q, models.ResponseMap{"Q9": "1", "Q9_amount": "5"})
		assert.Equal(t, "Amount must be between 10 and null", result.Message)
	})

	t.Run("numeric selection code matches string option code", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q7": 1, "Q7_amount": 50})
		assert.NotNil(t, result)
		assert.True(t, result.Valid)
	})
}

func TestValidateResponse_ForcePerColumn(t *testing.T) {
	q := &models.Question{
		ID:   "Q3",
		Mode: models.ModeTable,
		Grid: &models.GridConfig{
			Rows: []string{"Quality", "Price"},
			Cols: []string{"Brand A", "Brand B"},
		},
		Validation: &models.ValidationRule{Type: models.ValidationForcePerColumn},
	}

	t.Run("every column answered", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q3_Quality_0": "1",
			"Q3_Price_1":   "2",
		})
		assert.True(t, result.Valid)
		assert.Equal(t, "All columns completed", result.Message)
	})

	t.Run("missing columns are listed by label", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{"Q3_Quality_0": "1"})
		assert.False(t, result.Valid)
		assert.Equal(t, apperrors.SeverityError, result.Severity)
		assert.Equal(t, "Please answer for: Brand B", result.Message)
	})

	t.Run("blank cell values do not count as answers", func(t *testing.T) {
		result := ValidateResponse(q, models.ResponseMap{
			"Q3_Quality_0": "1",
			"Q3_Quality_1": "",
			"Q3_Price_1":   0,
		})
		assert.False(t, result.Valid)
		assert.Equal(t, "Please answer for: Brand B", result.Message)
	})

	t.Run("only applies to table questions", func(t *testing.T) {
		listQ := &models.Question{ID: "Q3", Mode: models.ModeList,
			Validation: &models.ValidationRule{Type: models.ValidationForcePerColumn}}
		assert.Nil(t, ValidateResponse(listQ, models.ResponseMap{}))
	})
}
