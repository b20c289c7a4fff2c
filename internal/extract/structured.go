package extract

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/llm"
	"github.com/agenthands/refinery/internal/schema"
)

const structuredSystemPrompt = "You are a helpful assistant that extracts " +
	"structured data. Always respond with valid JSON."

// StructuredExtractor turns a prompt and a target shape into a decoded
// mapping. It owns the JSON-mode fallback and the decode-resilience
// ladder; callers never see an error from it, only a populated mapping or
// the shape-conformant empty one.
type StructuredExtractor struct {
	client    llm.CompletionClient
	maxTokens int
	logger    *zap.Logger
}

func NewStructuredExtractor(client llm.CompletionClient, maxTokens int, logger *zap.Logger) *StructuredExtractor {
	return &StructuredExtractor{
		client:    client,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (e *StructuredExtractor) Extract(ctx context.Context, prompt string, shape schema.Shape, tier llm.Tier) map[string]any {
	return e.extract(ctx, prompt, "", shape, tier)
}

// ExtractWithImage is Extract with inline base64 image data attached to
// the completion call.
func (e *StructuredExtractor) ExtractWithImage(ctx context.Context, prompt string, imageBase64 string, shape schema.Shape, tier llm.Tier) map[string]any {
	return e.extract(ctx, prompt, imageBase64, shape, tier)
}

func (e *StructuredExtractor) extract(ctx context.Context, prompt string, imageBase64 string, shape schema.Shape, tier llm.Tier) map[string]any {
	req := llm.Request{
		Tier:        tier,
		System:      structuredSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   e.maxTokens,
		JSONMode:    true,
		ImageBase64: imageBase64,
	}

	content, err := e.client.Complete(ctx, req)
	if err != nil {
		// One fallback without strict JSON mode, then give up. The two
		// cases are logged apart so a provider capability gap is not
		// mistaken for a transport failure.
		if errors.Is(err, llm.ErrJSONModeUnsupported) {
			e.logger.Debug("extract.json_mode_unsupported", zap.String("tier", string(tier)))
		} else {
			e.logger.Warn("extract.json_mode_failed",
				zap.String("tier", string(tier)),
				zap.Error(err))
		}

		req.JSONMode = false
		content, err = e.client.Complete(ctx, req)
		if err != nil {
			e.logger.Error("extract.completion_failed",
				zap.String("tier", string(tier)),
				zap.Error(err))
			return shape.Empty()
		}
	}

	obj, ok := DecodeObject(content)
	if !ok {
		e.logger.Error("extract.decode_failed",
			zap.String("tier", string(tier)),
			zap.Int("raw_len", len(content)))
		return shape.Empty()
	}
	return obj
}
