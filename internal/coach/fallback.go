package coach

import (
	"encoding/json"
	"fmt"

	"github.com/preppal-app/coaching-service/internal/models"
)

// Fallback strings returned when the remote model fails or misbehaves. The
// conversation must always continue with a well-formed payload.
const (
	fallbackOpening      = "I'm having trouble connecting to the interview server. Let's try again. Tell me about yourself."
	fallbackEmptyOpening = "Hello! Let's get started. Tell me a little about yourself."

	fallbackScore = 70
)

// fallbackTurn is the deterministic substitute for a failed or malformed
// feedback generation.
func fallbackTurn(prefs models.UserPreferences) TurnResult {
	return TurnResult{
		Feedback: models.FeedbackData{
			Praise:         "Good effort!",
			Critique:       "Let's try to be more specific.",
			ImprovementTip: "Use the STAR method.",
			ExampleAnswer:  "A better answer would focus on specific metrics and outcomes.",
			Score:          fallbackScore,
		},
		NextQuestion: fmt.Sprintf("Could you elaborate on your experience relevant to the %s position?", prefs.JobRole),
		Source:       SourceFallback,
	}
}

// turnPayload mirrors the JSON shape requested from the model.
type turnPayload struct {
	Feedback *struct {
		Praise         string `json:"praise"`
		Critique       string `json:"critique"`
		ImprovementTip string `json:"improvementTip"`
		ExampleAnswer  string `json:"exampleAnswer"`
		Score          *int   `json:"score"`
	} `json:"feedback"`
	NextQuestion string `json:"nextQuestion"`
}

// parseTurnPayload validates the model response against the requested schema.
// The model is non-deterministic and may return invalid JSON despite the
// schema constraint, so every required field is checked before the payload is
// trusted.
func parseTurnPayload(raw string) (TurnResult, error) {
	var payload turnPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return TurnResult{}, fmt.Errorf("unparsable turn payload: %w", err)
	}

	if payload.Feedback == nil {
		return TurnResult{}, fmt.Errorf("turn payload missing feedback object")
	}
	if payload.NextQuestion == "" {
		return TurnResult{}, fmt.Errorf("turn payload missing nextQuestion")
	}
	if payload.Feedback.Score == nil {
		return TurnResult{}, fmt.Errorf("turn payload missing score")
	}
	score := *payload.Feedback.Score
	if score < 0 || score > 100 {
		return TurnResult{}, fmt.Errorf("turn payload score %d out of range", score)
	}

	return TurnResult{
		Feedback: models.FeedbackData{
			Praise:         payload.Feedback.Praise,
			Critique:       payload.Feedback.Critique,
			ImprovementTip: payload.Feedback.ImprovementTip,
			ExampleAnswer:  payload.Feedback.ExampleAnswer,
			Score:          score,
		},
		NextQuestion: payload.NextQuestion,
		Source:       SourceModel,
	}, nil
}
