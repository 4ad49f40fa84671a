package query

import "time"

// PredicateKind identifies one operation of the store-agnostic predicate
// algebra. The store adapter translates kinds into its native operators.
type PredicateKind string

const (
	// KindEquals matches the exact stored value.
	KindEquals PredicateKind = "equals"
	// KindMatch matches case-insensitively on substring.
	KindMatch PredicateKind = "match"
	// KindIn matches membership in a value set.
	KindIn PredicateKind = "in"
	// KindRange matches an inclusive interval; either bound may be open.
	KindRange PredicateKind = "range"
)

// Predicate is one named constraint of a filter expression.
type Predicate struct {
	Kind   PredicateKind
	Value  interface{}   // Equals, Match
	Values []interface{} // In
	Min    *time.Time    // Range lower bound, inclusive
	Max    *time.Time    // Range upper bound, inclusive
}

// Equals builds an exact-match predicate.
func Equals(value interface{}) Predicate {
	return Predicate{Kind: KindEquals, Value: value}
}

// Match builds a case-insensitive substring predicate.
func Match(value interface{}) Predicate {
	return Predicate{Kind: KindMatch, Value: value}
}

// In builds a set-membership predicate.
func In(values ...interface{}) Predicate {
	return Predicate{Kind: KindIn, Values: values}
}

// Range builds an inclusive interval predicate. Nil bounds are open.
func Range(min, max *time.Time) Predicate {
	return Predicate{Kind: KindRange, Min: min, Max: max}
}

// Visibility selects which records a query sees with respect to soft deletion.
// Soft-delete mode travels as this typed field, never as a filter map entry.
type Visibility string

const (
	// VisibilityLive excludes soft-deleted records. This is the default.
	VisibilityLive Visibility = "live"
	// VisibilityAll shows live and soft-deleted records.
	VisibilityAll Visibility = "all"
	// VisibilityDeleted shows only soft-deleted records.
	VisibilityDeleted Visibility = "deleted"
)

// SearchClause is a free-text disjunction: the term matches when any listed
// field contains it, case-insensitively.
type SearchClause struct {
	Term   string
	Fields []string
}

// Expression is the structured filter produced by Translate and consumed by
// the engine and store adapter. It is never mutated after construction;
// operations needing a variant work on a Clone.
type Expression struct {
	// Predicates maps field paths to their constraint. All entries are
	// conjoined.
	Predicates map[string]Predicate
	// Search is the optional free-text clause, conjoined with Predicates.
	Search *SearchClause
	// Visibility is the soft-delete mode.
	Visibility Visibility
	// TenantField/TenantID scope the query to one tenant when TenantField
	// is non-empty. The value always originates from the caller's context.
	TenantField string
	TenantID    string
}

// NewExpression creates an empty expression with default live visibility.
func NewExpression() *Expression {
	return &Expression{
		Predicates: make(map[string]Predicate),
		Visibility: VisibilityLive,
	}
}

// Clone returns a deep-enough copy: the predicate map is fresh, predicate
// values are shared (they are treated as immutable throughout).
func (e *Expression) Clone() *Expression {
	if e == nil {
		return NewExpression()
	}
	out := &Expression{
		Predicates:  make(map[string]Predicate, len(e.Predicates)),
		Visibility:  e.Visibility,
		TenantField: e.TenantField,
		TenantID:    e.TenantID,
	}
	for field, p := range e.Predicates {
		out.Predicates[field] = p
	}
	if e.Search != nil {
		fields := make([]string, len(e.Search.Fields))
		copy(fields, e.Search.Fields)
		out.Search = &SearchClause{Term: e.Search.Term, Fields: fields}
	}
	if out.Visibility == "" {
		out.Visibility = VisibilityLive
	}
	return out
}

// merge returns a new expression with the override applied over the base.
// Override predicates win on field conflicts; a non-empty override search,
// visibility or tenant constraint replaces the base's.
func (e *Expression) merge(override *Expression) *Expression {
	merged := e.Clone()
	if override == nil {
		return merged
	}
	for field, p := range override.Predicates {
		merged.Predicates[field] = p
	}
	if override.Search != nil {
		fields := make([]string, len(override.Search.Fields))
		copy(fields, override.Search.Fields)
		merged.Search = &SearchClause{Term: override.Search.Term, Fields: fields}
	}
	if override.Visibility != "" {
		merged.Visibility = override.Visibility
	}
	if override.TenantField != "" {
		merged.TenantField = override.TenantField
		merged.TenantID = override.TenantID
	}
	return merged
}
