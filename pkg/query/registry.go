package query

import "fmt"

// Registry holds one immutable EntityConfig per entity type. It is populated
// during startup and read-only afterwards; Resolve is safe for concurrent use
// without locking once registration has finished.
type Registry struct {
	configs map[string]EntityConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]EntityConfig)}
}

// Register validates and stores the configuration under cfg.EntityType.
// Registering the same entity type twice is a programming error and fails.
func (r *Registry) Register(cfg EntityConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config for entity type %q: %w", cfg.EntityType, err)
	}
	if _, exists := r.configs[cfg.EntityType]; exists {
		return fmt.Errorf("entity type %q already registered", cfg.EntityType)
	}
	r.configs[cfg.EntityType] = cfg.clone()
	return nil
}

// MustRegister registers the configuration and panics on error.
// Use for the static entity catalog wired at startup.
func (r *Registry) MustRegister(cfgs ...EntityConfig) {
	for _, cfg := range cfgs {
		if err := r.Register(cfg); err != nil {
			panic(err)
		}
	}
}

// Resolve returns a copy of the configuration registered for the entity type.
// Callers can mutate the copy freely without affecting the registry.
func (r *Registry) Resolve(entityType string) (EntityConfig, error) {
	cfg, ok := r.configs[entityType]
	if !ok {
		return EntityConfig{}, NewUnknownEntityTypeError(entityType)
	}
	return cfg.clone(), nil
}

// EntityTypes returns the registered entity type names.
func (r *Registry) EntityTypes() []string {
	types := make([]string, 0, len(r.configs))
	for name := range r.configs {
		types = append(types, name)
	}
	return types
}
