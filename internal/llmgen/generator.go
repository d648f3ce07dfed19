// Package llmgen is the model-access layer used by internal/facts (C6,
// fact extraction) and internal/storytelling (C8/C9, story generation and
// repair). Patterned after an internal/llm package, but collapsed down
// to the two operations this service actually needs instead of a full
// multi-provider broker/model-registry/credit-ledger stack.
package llmgen

import (
	"context"
	"encoding/json"
)

// Generator is the model-access contract. Both methods are expected to
// retry transient failures internally; callers see either a usable
// result or a terminal error.
type Generator interface {
	// GenerateText returns the model's raw text completion for prompt.
	// Used for story generation, where the response is a single
	// paragraph of prose or the NO_STORY sentinel.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON returns the model's response to prompt as a raw JSON
	// value, having asked the model to respond in application/json.
	// Used for fact extraction, where the response is a JSON array of
	// candidate facts.
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}
