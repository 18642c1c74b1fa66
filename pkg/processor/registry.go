package processor

import (
	"fmt"
	"sort"
	"strings"
)

// Factory creates a fresh, unfitted processor.
type Factory func() Processor

// Registry maps (stage, method) to processor factories.
type Registry struct {
	factories map[Stage]map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Stage]map[string]Factory)}
}

// Register adds or replaces the factory for method within stage.
func (r *Registry) Register(stage Stage, method string, f Factory) *Registry {
	m, ok := r.factories[stage]
	if !ok {
		m = make(map[string]Factory)
		r.factories[stage] = m
	}
	m[strings.ToLower(method)] = f
	return r
}

// New instantiates method for stage. Method names are case-insensitive and
// may carry the stage as prefix ("missingist_drop" is "drop").
func (r *Registry) New(stage Stage, method string) (Processor, error) {
	key := strings.TrimPrefix(strings.ToLower(method), string(stage)+"_")
	f, ok := r.factories[stage][key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown %s method %q", ErrConfiguration, stage, method)
	}
	return f(), nil
}

// Methods lists the registered methods of stage, sorted.
func (r *Registry) Methods(stage Stage) []string {
	out := make([]string, 0, len(r.factories[stage]))
	for k := range r.factories[stage] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
