package llmgen

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model responds with no
// candidates or no text parts at all, which callers should treat as a
// terminal failure rather than retrying forever upstream.
var ErrEmptyResponse = errors.New("llmgen: empty response from model")

// GeminiGenerator is a thin wrapper around the official genai client,
// Patterned after internal/llm/gemini.go GeminiClient. Retry
// and rate limiting live in separate decorators (see retry.go,
// ratelimit.go) rather than inline here, matching the
// middleware-wrapping style of internal/llm/middleware_retry.go.
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

// NewGeminiGenerator builds a GeminiGenerator against the Gemini API
// backend. apiKey is read from the environment by the genai client per
// its own conventions; callers are expected to have GOOGLE_API_KEY (or
// equivalent) set.
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{cli: cli, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	text, ok := firstPartText(resp)
	if !ok {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	text, ok := firstPartText(resp)
	if !ok {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(text), nil
}

func firstPartText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}
