package providers

import (
	"strings"

	"github.com/lotkeeper/lotkeeper/internal/history/domain"
)

// Registry holds the fixed, ordered provider set. Order matters: it is the
// fallback sequence and the only tie-break for equal-confidence reports.
type Registry struct {
	ordered []domain.Provider
	byName  map[string]domain.Provider
}

func NewRegistry(providers ...domain.Provider) *Registry {
	registry := &Registry{byName: map[string]domain.Provider{}}
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(provider.Name()))
		if name == "" {
			continue
		}
		if _, exists := registry.byName[name]; exists {
			continue
		}
		registry.ordered = append(registry.ordered, provider)
		registry.byName[name] = provider
	}
	return registry
}

// Ordered returns the providers in registration order.
func (r *Registry) Ordered() []domain.Provider {
	if r == nil {
		return nil
	}
	return r.ordered
}

// ByName looks a provider up case-insensitively.
func (r *Registry) ByName(name string) (domain.Provider, bool) {
	if r == nil {
		return nil, false
	}
	provider, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return provider, ok
}
