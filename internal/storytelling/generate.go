package storytelling

import (
	"context"
	"fmt"
	"strings"

	"narrator/internal/llmgen"
	"narrator/internal/obslog"
)

// Result is the outcome of Generate: either a validated story, or a
// terminal reason explaining why none was produced.
type Result struct {
	Story  string
	OK     bool
	Reason string
}

// Generate runs the prompt/validate/repair loop of C8-C9: one initial
// generation, and if validation fails for a repairable reason, exactly
// one corrective regeneration. A second failure yields a terminal
// "final_validation_failed_<reason>" outcome.
func Generate(ctx context.Context, gen llmgen.Generator, req Request, minWords, maxWords int, fillers map[string][]string) Result {
	prompt := BuildPrompt(req, minWords, maxWords)
	draft, err := gen.GenerateText(ctx, prompt)
	if err != nil {
		obslog.FromCtx(ctx).Warn().Err(err).Str("poi_key", req.POI.Key).Msg("storytelling: generation call failed")
		return Result{Reason: ReasonModelNoStory}
	}

	if ok, reason := Validate(draft, req.Lang, minWords, maxWords, fillers); ok {
		return Result{Story: strings.TrimSpace(draft), OK: true}
	} else if reason == ReasonModelNoStory {
		return Result{Reason: ReasonModelNoStory}
	} else {
		return repair(ctx, gen, req, minWords, maxWords, draft, reason, fillers)
	}
}

func repair(ctx context.Context, gen llmgen.Generator, req Request, minWords, maxWords int, badDraft, reason string, fillers map[string][]string) Result {
	repairPrompt := BuildRepairPrompt(req, minWords, maxWords, badDraft, reason)
	retry, err := gen.GenerateText(ctx, repairPrompt)
	if err != nil {
		obslog.FromCtx(ctx).Warn().Err(err).Str("poi_key", req.POI.Key).Msg("storytelling: repair call failed")
		return Result{Reason: fmt.Sprintf("final_validation_failed_%s", reason)}
	}

	if ok, retryReason := Validate(retry, req.Lang, minWords, maxWords, fillers); ok {
		return Result{Story: strings.TrimSpace(retry), OK: true}
	} else if retryReason == ReasonModelNoStory {
		return Result{Reason: ReasonModelNoStory}
	} else {
		return Result{Reason: fmt.Sprintf("final_validation_failed_%s", retryReason)}
	}
}
