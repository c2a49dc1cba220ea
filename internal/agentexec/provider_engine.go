package agentexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/swissarmyhammer/agent-runtime/internal/provider"
)

// NewEinoEngineFromProvider wraps an already-registered provider's chat
// model as the default LLMEngine, so GetGlobalExecutor can boot against a
// real Anthropic/OpenAI/ARK backend instead of requiring callers to hand
// construct an EinoEngine themselves.
func NewEinoEngineFromProvider(p provider.Provider) *EinoEngine {
	return NewEinoEngine(p.ChatModel())
}

// BuildDefaultEngine resolves "provider/model" (the same shape as
// types.Config.Model, e.g. "anthropic/claude-sonnet-4-20250514") against a
// registry. A provider not yet in the registry is constructed on demand
// when its id is "anthropic", "claude", "openai" or "ark" (the provider
// constructors read their API keys from the environment) and registered;
// any other id is an error. Returns the resulting engine.
func BuildDefaultEngine(ctx context.Context, reg *provider.Registry, modelRef string) (*EinoEngine, error) {
	providerID, modelID, ok := strings.Cut(modelRef, "/")
	if !ok {
		return nil, fmt.Errorf("model reference %q must be in provider/model form", modelRef)
	}

	p, err := reg.Get(providerID)
	if err != nil {
		p, err = registerBuiltinProvider(ctx, reg, providerID, modelID)
		if err != nil {
			return nil, err
		}
	}

	return NewEinoEngineFromProvider(p), nil
}

func registerBuiltinProvider(ctx context.Context, reg *provider.Registry, providerID, modelID string) (provider.Provider, error) {
	var (
		p   provider.Provider
		err error
	)

	switch providerID {
	case "anthropic", "claude":
		p, err = provider.NewAnthropicProvider(ctx, &provider.AnthropicConfig{ID: providerID, Model: modelID})
	case "openai":
		p, err = provider.NewOpenAIProvider(ctx, &provider.OpenAIConfig{ID: providerID, Model: modelID})
	case "ark":
		p, err = provider.NewArkProvider(ctx, &provider.ArkConfig{Model: modelID})
	default:
		return nil, fmt.Errorf("unknown provider %q", providerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to construct provider %q: %w", providerID, err)
	}

	reg.Register(p)
	return p, nil
}
