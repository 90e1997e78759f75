// Package coach wraps the remote structured-generation model behind a
// never-fail contract: every call returns a usable payload, substituting a
// deterministic fallback when the model is unreachable or returns malformed
// data. The turn loop must never be blocked by a remote outage.
package coach

import (
	"context"
	"log/slog"

	"github.com/preppal-app/coaching-service/internal/models"
)

// Source tags where a coaching payload came from, making fallback
// substitution observable to callers and tests.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// TurnResult is the structured outcome of one coached turn.
type TurnResult struct {
	Feedback     models.FeedbackData `json:"feedback"`
	NextQuestion string              `json:"next_question"`
	Source       Source              `json:"source"`
}

// Generator is the coaching interface the session service depends on.
// Neither operation returns an error: remote failures are absorbed here.
type Generator interface {
	// OpeningQuestion produces the welcome-plus-first-question text for a
	// fresh session.
	OpeningQuestion(ctx context.Context, prefs models.UserPreferences) (string, Source)

	// FeedbackAndNextQuestion scores the latest answer against the full
	// prior conversation and proposes the next question.
	FeedbackAndNextQuestion(ctx context.Context, prefs models.UserPreferences, history []models.Message, latestAnswer string) TurnResult
}

// ModelBackend is the one-shot remote generation boundary. GenerateText asks
// for a plain string; GenerateJSON constrains the response to the turn schema.
type ModelBackend interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type client struct {
	backend ModelBackend
	logger  *slog.Logger
}

// NewClient builds a Generator over the given model backend.
func NewClient(backend ModelBackend, logger *slog.Logger) Generator {
	return &client{backend: backend, logger: logger}
}

func (c *client) OpeningQuestion(ctx context.Context, prefs models.UserPreferences) (string, Source) {
	text, err := c.backend.GenerateText(ctx, buildOpeningPrompt(prefs))
	if err != nil {
		c.logger.Warn("opening question generation failed, using fallback",
			"job_role", prefs.JobRole, "error", err)
		return fallbackOpening, SourceFallback
	}
	if text == "" {
		c.logger.Warn("opening question generation returned empty text, using fallback",
			"job_role", prefs.JobRole)
		return fallbackEmptyOpening, SourceFallback
	}
	return text, SourceModel
}

func (c *client) FeedbackAndNextQuestion(ctx context.Context, prefs models.UserPreferences, history []models.Message, latestAnswer string) TurnResult {
	prompt := buildTurnPrompt(prefs, history, latestAnswer)

	raw, err := c.backend.GenerateJSON(ctx, prompt)
	if err != nil {
		c.logger.Warn("feedback generation failed, using fallback",
			"job_role", prefs.JobRole, "error", err)
		return fallbackTurn(prefs)
	}

	result, err := parseTurnPayload(raw)
	if err != nil {
		c.logger.Warn("feedback payload malformed, using fallback",
			"job_role", prefs.JobRole, "error", err)
		return fallbackTurn(prefs)
	}
	return result
}
