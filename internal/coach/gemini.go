package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/preppal-app/coaching-service/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// turnResponseSchema constrains the feedback generation to the structured
// turn shape. Kept as raw JSON because it is sent verbatim to the API.
var turnResponseSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "feedback": {
      "type": "OBJECT",
      "properties": {
        "praise": {"type": "STRING", "description": "A short, encouraging sentence highlighting what was good."},
        "critique": {"type": "STRING", "description": "A gentle, constructive observation on what could be improved."},
        "improvementTip": {"type": "STRING", "description": "Actionable advice for the next answer."},
        "exampleAnswer": {"type": "STRING", "description": "A concrete example of how a strong candidate would answer the previous question."},
        "score": {"type": "INTEGER", "description": "A score from 0 to 100 rating the quality of the answer."}
      },
      "required": ["praise", "critique", "improvementTip", "exampleAnswer", "score"]
    },
    "nextQuestion": {"type": "STRING", "description": "The next interview question to ask the user."}
  },
  "required": ["feedback", "nextQuestion"]
}`)

// GeminiBackend implements ModelBackend against the Gemini generateContent
// REST endpoint. One shot per call: no retries, no streaming.
type GeminiBackend struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	client      *http.Client
}

func NewGeminiBackend(cfg config.GeminiConfig) *GeminiBackend {
	return &GeminiBackend{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		baseURL:     defaultGeminiBaseURL,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, geminiGenerationConfig{
		Temperature: g.temperature,
	})
}

func (g *GeminiBackend) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, geminiGenerationConfig{
		Temperature:      g.temperature,
		ResponseMimeType: "application/json",
		ResponseSchema:   turnResponseSchema,
	})
}

func (g *GeminiBackend) generate(ctx context.Context, prompt string, genCfg geminiGenerationConfig) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini: API key not configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("gemini: failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
