package llm

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Registry maps provider ids to ready-to-use providers. It is built once at
// startup and only read afterwards.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds every known provider from cfg, each wrapped with
// logging middleware. Providers without credentials are still registered;
// they fail with ErrAuth when invoked so a chain can advance past them.
func NewRegistry(ctx context.Context, cfg Config, logger *zap.Logger) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider, len(KnownProviders))}

	for _, id := range KnownProviders {
		base, err := newProvider(ctx, id, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", id, err)
		}
		// Wrap with middleware: caller → logging → base
		r.providers[id] = WithLogging(base, logger)
	}

	return r, nil
}

// NewStaticRegistry builds a registry from already constructed providers,
// keyed by their ID. Used by tests.
func NewStaticRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
	}
	return r
}

func newProvider(ctx context.Context, id string, cfg Config) (Provider, error) {
	pc, err := cfg.ProviderConfig(id)
	if err != nil {
		return nil, err
	}

	switch id {
	case ProviderOpenAI:
		return NewOpenAIProvider(ProviderOpenAI, pc), nil
	case ProviderGroq:
		return NewGroqProvider(pc), nil
	case ProviderOpenRouter:
		return NewOpenRouterProvider(pc), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(pc), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, pc)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", id)
	}
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the registered provider ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
