package query

import (
	"context"
	"fmt"
)

// Factory binds the registry and engine into per-entity services.
type Factory struct {
	registry *Registry
	engine   *Engine
}

// NewFactory creates a service factory.
func NewFactory(registry *Registry, engine *Engine) (*Factory, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	return &Factory{registry: registry, engine: engine}, nil
}

// CreateService resolves the registered configuration for the entity type,
// applies the optional per-call-site overrides over a copy of it, and returns
// a service closing over the merged configuration. The shared registered
// configuration is never mutated.
func (f *Factory) CreateService(entityType string, overrides *Overrides) (*Service, error) {
	cfg, err := f.registry.Resolve(entityType)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		cfg = overrides.merge(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("overrides produce invalid config for entity type %q: %w", entityType, err)
		}
	}
	return &Service{cfg: cfg, factory: f}, nil
}

// RelatedSearch names the parent entity and foreign key of a two-phase
// cross-entity search.
type RelatedSearch struct {
	// ParentType is the registered entity type whose searchable fields the
	// term matches against.
	ParentType string
	// ForeignKey is the field on this service's entity referencing the
	// parent's identifier.
	ForeignKey string
}

// Service is a pagination engine bound to one entity configuration. It is
// immutable and safe for concurrent use.
type Service struct {
	cfg     EntityConfig
	factory *Factory
}

// Config returns the effective entity configuration the service is bound to.
func (s *Service) Config() EntityConfig {
	return s.cfg
}

// Paginate executes a raw-parameter pagination call. The optional override is
// a caller-trusted expression merged over the translated filter; its
// predicates win on field conflicts.
func (s *Service) Paginate(ctx context.Context, req Request, override *Expression) (*Result, error) {
	return s.factory.engine.Paginate(ctx, s.cfg, req, override)
}

// AdvancedSearch executes a pre-structured filter expression.
func (s *Service) AdvancedSearch(ctx context.Context, criteria *Expression, opts SearchOptions) (*Result, error) {
	return s.factory.engine.AdvancedSearch(ctx, s.cfg, criteria, opts)
}

// SearchAcrossRelated executes a two-phase search: the request's search term
// is resolved against the parent entity first, then this entity is filtered by
// foreign-key membership in the resolved identifier set.
func (s *Service) SearchAcrossRelated(ctx context.Context, req Request, rel RelatedSearch) (*Result, error) {
	parent, err := s.factory.registry.Resolve(rel.ParentType)
	if err != nil {
		return nil, err
	}
	if rel.ForeignKey == "" {
		return nil, fmt.Errorf("foreign key is required for related search")
	}
	return s.factory.engine.SearchAcrossRelated(ctx, s.cfg, parent, rel.ForeignKey, req)
}
