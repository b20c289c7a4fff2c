package llm

import (
	"context"
	"errors"
)

// Tier is a named quality/cost class of model. Callers select a tier per
// operation; each client maps the tier to a concrete model identifier.
type Tier string

const (
	TierFast    Tier = "fast"
	TierCapable Tier = "capable"
	TierVision  Tier = "vision"
)

// ErrJSONModeUnsupported reports that the provider cannot honor a strict
// JSON response mode. Callers branch on it with errors.Is and retry the
// same request without JSONMode instead of treating it as a hard failure.
var ErrJSONModeUnsupported = errors.New("llm: provider does not support JSON response mode")

// Request is a single chat-style completion call.
type Request struct {
	Tier      Tier
	System    string
	Prompt    string
	MaxTokens int
	JSONMode  bool

	// ImageBase64, when set, is inline base64-encoded JPEG data attached
	// alongside the prompt for multimodal calls.
	ImageBase64 string
}

type CompletionClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Models maps tiers to provider model identifiers.
type Models struct {
	Fast    string
	Capable string
	Vision  string
}

func (m Models) ForTier(t Tier) string {
	switch t {
	case TierCapable:
		return m.Capable
	case TierVision:
		return m.Vision
	default:
		return m.Fast
	}
}
