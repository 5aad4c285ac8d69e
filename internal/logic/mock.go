package logic

import "github.com/qgen-labs/survey-logic-service/internal/models"

// BuildMockResponses fabricates a plausible response for every question so
// the editor can preview conditional logic before any fieldwork exists.
// Deterministic: choice questions answer with their first option code,
// numeric questions with "25", everything else with sample text.
func BuildMockResponses(questions []models.Question) models.ResponseMap {
	responses := make(models.ResponseMap, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			continue
		}
		switch {
		case len(q.Options) > 0:
			code := q.Options[0].Code
			if code == "" {
				code = "1"
			}
			responses[q.ID] = code
		case Classify(q) == TypeNumber:
			responses[q.ID] = "25"
		default:
			responses[q.ID] = "Sample response"
		}
	}
	return responses
}
