// Package query implements the generic query-translation and pagination engine
// shared by every entity type of the record-management backend. Each entity is
// described declaratively by an EntityConfig; the engine turns arbitrary
// untyped request parameters into a bounded, tenant-isolated store query and a
// uniform paginated envelope.
package query

import (
	"errors"
	"fmt"
)

// DefaultLimit is the page size applied when a request carries none and the
// entity configuration does not override it.
const DefaultLimit = 10

// Relation declares a related collection reachable from an entity, keyed by
// the expansion path callers reference. The store resolves it into embedded
// data when the path is requested.
type Relation struct {
	// Collection is the related collection name.
	Collection string
	// LocalField is the field on this entity holding the reference.
	LocalField string
	// ForeignField is the matching field on the related collection,
	// usually its identifier.
	ForeignField string
}

// EntityConfig describes how one entity type is queried. Instances are built
// once at startup, validated on registration, and never mutated afterwards;
// concurrent reads are always safe.
type EntityConfig struct {
	// EntityType is the registry key, e.g. "cases".
	EntityType string
	// Collection is the backing store collection.
	Collection string
	// SearchableFields are the paths free-text search ORs over.
	SearchableFields []string
	// FilterableFields are the paths eligible for direct filtering.
	// Request filter keys outside this set are silently ignored.
	FilterableFields []string
	// TextFilterFields is the subset of FilterableFields matched by
	// substring even when the input looks exact. Membership here is the
	// only thing that triggers substring matching; field names are never
	// pattern-guessed.
	TextFilterFields []string
	// DefaultSort applies when the caller specifies no sort. A leading
	// '-' marks descending order.
	DefaultSort string
	// DateField is the field startDate/endDate range over.
	DateField string
	// DefaultLimit is the page size when the request carries none.
	// Zero falls back to the package default.
	DefaultLimit int
	// MaxLimit is the hard ceiling on page size.
	MaxLimit int
	// DefaultExpansion lists relation paths resolved when the caller
	// specifies none. An explicit request list replaces it entirely.
	DefaultExpansion []string
	// Relations declares the related collections expansion paths and
	// cross-entity search resolve through.
	Relations map[string]Relation
	// TenantRequired forces every query to carry the caller's tenant
	// identity; absent identity fails closed.
	TenantRequired bool
	// TenantField is the stored field holding the tenant identifier.
	TenantField string
	// DeletedField is the stored soft-delete flag.
	DeletedField string
	// IDField is the stored identifier field, used when this entity is
	// the parent side of a cross-entity search.
	IDField string
}

// Validate checks the configuration invariants enforced at registration time.
func (c EntityConfig) Validate() error {
	var errs []error

	if c.EntityType == "" {
		errs = append(errs, errors.New("entity type is required"))
	}
	if c.Collection == "" {
		errs = append(errs, errors.New("collection is required"))
	}
	if c.MaxLimit <= 0 {
		errs = append(errs, errors.New("max limit must be positive"))
	}
	if c.DefaultLimit < 0 {
		errs = append(errs, errors.New("default limit cannot be negative"))
	}
	if c.DefaultLimit > c.MaxLimit && c.MaxLimit > 0 {
		errs = append(errs, errors.New("default limit cannot exceed max limit"))
	}
	if c.TenantRequired && c.TenantField == "" {
		errs = append(errs, errors.New("tenant field is required when tenant scope is mandatory"))
	}

	filterable := make(map[string]struct{}, len(c.FilterableFields))
	for _, f := range c.FilterableFields {
		filterable[f] = struct{}{}
	}
	for _, f := range c.TextFilterFields {
		if _, ok := filterable[f]; !ok {
			errs = append(errs, fmt.Errorf("text filter field %q is not declared filterable", f))
		}
	}

	for _, path := range c.DefaultExpansion {
		if _, ok := c.Relations[path]; !ok {
			errs = append(errs, fmt.Errorf("default expansion path %q has no declared relation", path))
		}
	}
	for path, rel := range c.Relations {
		if rel.Collection == "" || rel.LocalField == "" || rel.ForeignField == "" {
			errs = append(errs, fmt.Errorf("relation %q must declare collection, local field and foreign field", path))
		}
	}

	return errors.Join(errs...)
}

// clone returns a deep copy so neither side can mutate the other through
// shared slices or the relation map.
func (c EntityConfig) clone() EntityConfig {
	out := c
	out.SearchableFields = copyOr(c.SearchableFields, nil)
	out.FilterableFields = copyOr(c.FilterableFields, nil)
	out.TextFilterFields = copyOr(c.TextFilterFields, nil)
	out.DefaultExpansion = copyOr(c.DefaultExpansion, nil)
	if c.Relations != nil {
		out.Relations = make(map[string]Relation, len(c.Relations))
		for path, rel := range c.Relations {
			out.Relations[path] = rel
		}
	}
	return out
}

// Overrides narrows or extends one entity configuration for a single call
// site without touching the shared registered config. Nil and zero-valued
// fields leave the base untouched; slices and maps replace wholesale.
type Overrides struct {
	SearchableFields []string
	FilterableFields []string
	TextFilterFields []string
	DefaultSort      string
	DateField        string
	DefaultLimit     int
	MaxLimit         int
	DefaultExpansion []string
	Relations        map[string]Relation
}

// merge produces a new config with the overrides applied over the base.
// The base is copied, never mutated.
func (o Overrides) merge(base EntityConfig) EntityConfig {
	merged := base
	merged.SearchableFields = copyOr(base.SearchableFields, o.SearchableFields)
	merged.FilterableFields = copyOr(base.FilterableFields, o.FilterableFields)
	merged.TextFilterFields = copyOr(base.TextFilterFields, o.TextFilterFields)
	merged.DefaultExpansion = copyOr(base.DefaultExpansion, o.DefaultExpansion)
	if o.DefaultSort != "" {
		merged.DefaultSort = o.DefaultSort
	}
	if o.DateField != "" {
		merged.DateField = o.DateField
	}
	if o.DefaultLimit > 0 {
		merged.DefaultLimit = o.DefaultLimit
	}
	if o.MaxLimit > 0 {
		merged.MaxLimit = o.MaxLimit
	}

	relations := make(map[string]Relation, len(base.Relations)+len(o.Relations))
	for path, rel := range base.Relations {
		relations[path] = rel
	}
	for path, rel := range o.Relations {
		relations[path] = rel
	}
	merged.Relations = relations

	return merged
}

func copyOr(base, override []string) []string {
	src := base
	if override != nil {
		src = override
	}
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
