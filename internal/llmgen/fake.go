package llmgen

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fake is a canned-response test double, patterned after an
// internal/llm/fakeLLM.go FakeClient. Responses are queued in call
// order; a call made after the queue is drained returns an exhausted error.
type Fake struct {
	TextResponses []string
	JSONResponses []string
	Err           error

	textCalls int
	jsonCalls int
	Prompts   []string
}

var errExhausted = fmt.Errorf("llmgen: fake has no more queued responses")

func (f *Fake) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if f.textCalls >= len(f.TextResponses) {
		return "", errExhausted
	}
	out := f.TextResponses[f.textCalls]
	f.textCalls++
	return out, nil
}

func (f *Fake) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.jsonCalls >= len(f.JSONResponses) {
		return nil, errExhausted
	}
	out := f.JSONResponses[f.jsonCalls]
	f.jsonCalls++
	return json.RawMessage(out), nil
}
