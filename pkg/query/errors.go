package query

import "fmt"

// UnknownEntityTypeError is returned when an entity type was never registered.
type UnknownEntityTypeError struct {
	EntityType string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", e.EntityType)
}

// NewUnknownEntityTypeError creates a new UnknownEntityTypeError
func NewUnknownEntityTypeError(entityType string) *UnknownEntityTypeError {
	return &UnknownEntityTypeError{EntityType: entityType}
}

// InvalidFilterValueError is returned when a filter input cannot be interpreted,
// naming the offending field. It is raised before any store access.
type InvalidFilterValueError struct {
	Field string
	Value string
	Cause error
}

func (e *InvalidFilterValueError) Error() string {
	return fmt.Sprintf("invalid filter value %q for field %q", e.Value, e.Field)
}

func (e *InvalidFilterValueError) Unwrap() error {
	return e.Cause
}

// NewInvalidFilterValueError creates a new InvalidFilterValueError
func NewInvalidFilterValueError(field, value string, cause error) *InvalidFilterValueError {
	return &InvalidFilterValueError{Field: field, Value: value, Cause: cause}
}

// TenantScopeError is returned when a tenant-required entity is queried without
// a resolvable tenant identity. The query never executes against unscoped data.
type TenantScopeError struct {
	EntityType string
}

func (e *TenantScopeError) Error() string {
	return fmt.Sprintf("entity type %q requires tenant scope and no tenant is present in context", e.EntityType)
}

// NewTenantScopeError creates a new TenantScopeError
func NewTenantScopeError(entityType string) *TenantScopeError {
	return &TenantScopeError{EntityType: entityType}
}

// StoreError wraps an underlying store failure with the context of the attempted
// operation so callers can log it without re-deriving the effective query.
type StoreError struct {
	EntityType string
	Op         string
	Filter     *Expression
	Cause      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed for entity type %q: %v", e.Op, e.EntityType, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError
func NewStoreError(entityType, op string, filter *Expression, cause error) *StoreError {
	return &StoreError{EntityType: entityType, Op: op, Filter: filter, Cause: cause}
}
