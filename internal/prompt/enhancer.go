package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sceneforge/internal/genclient"
)

// instructionTemplate is the fixed rewrite instruction sent alongside the raw
// prompt. Narration and clip conventions elsewhere assume short scenes, so
// the rewrite asks for one dense cinematic description.
const instructionTemplate = "Rewrite the following idea as one rich, cinematic scene description. " +
	"Keep it under 40 words, mention lighting, camera angle and mood, and return only the description.\n\nIdea: %s"

// defaultModel is the text-flavored model used for rewrites.
const defaultModel = "scene-text-v1"

// ContentGenerator is the slice of the generation client the enhancer needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents any) (*genclient.ContentResult, error)
}

// Enhancer rewrites user prompts into richer cinematic descriptions. It is a
// transparent, non-fatal step: any failure hands the original prompt back.
type Enhancer struct {
	gen    ContentGenerator
	model  string
	logger zerolog.Logger
}

// NewEnhancer constructs an enhancer. An empty model selects the default
// text model.
func NewEnhancer(gen ContentGenerator, model string, logger zerolog.Logger) *Enhancer {
	if model == "" {
		model = defaultModel
	}
	return &Enhancer{gen: gen, model: model, logger: logger}
}

// Enhance returns the rewritten prompt, or the original unchanged when the
// round trip fails or produces nothing usable.
func (e *Enhancer) Enhance(ctx context.Context, prompt string) string {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" || e.gen == nil {
		return prompt
	}
	res, err := e.gen.GenerateContent(ctx, e.model, fmt.Sprintf(instructionTemplate, trimmed))
	if err != nil {
		e.logger.Warn().Err(err).Msg("prompt: enhancement failed, keeping original")
		return prompt
	}
	enhanced := strings.TrimSpace(res.Text)
	if enhanced == "" {
		return prompt
	}
	return enhanced
}
