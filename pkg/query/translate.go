package query

import (
	"fmt"
	"time"
)

// dateLayouts are the accepted shapes for startDate/endDate inputs. Full
// timestamps are truncated to the calendar day they fall in.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Translate is a pure function from raw request parameters to a structured
// filter expression. It performs no I/O. Unknown filter keys are silently
// ignored; this permissiveness is a deliberate boundary, not an error. The
// only rejected inputs are malformed dates and a missing tenant identity for
// tenant-required entities, both detected before any store access.
func Translate(req Request, cfg EntityConfig, tenantID string) (*Expression, error) {
	expr := NewExpression()

	if req.Search != "" && len(cfg.SearchableFields) > 0 {
		fields := make([]string, len(cfg.SearchableFields))
		copy(fields, cfg.SearchableFields)
		expr.Search = &SearchClause{Term: req.Search, Fields: fields}
	}

	textFields := make(map[string]struct{}, len(cfg.TextFilterFields))
	for _, f := range cfg.TextFilterFields {
		textFields[f] = struct{}{}
	}
	for _, field := range cfg.FilterableFields {
		value, ok := req.Filters[field]
		if !ok || value == nil {
			continue
		}
		expr.Predicates[field] = classify(field, value, textFields)
	}

	if cfg.DateField != "" && (req.StartDate != "" || req.EndDate != "") {
		min, err := parseDayBound(req.StartDate, "startDate", false)
		if err != nil {
			return nil, err
		}
		max, err := parseDayBound(req.EndDate, "endDate", true)
		if err != nil {
			return nil, err
		}
		expr.Predicates[cfg.DateField] = Range(min, max)
	}

	expr.Visibility = req.visibility()

	if cfg.TenantRequired {
		if tenantID == "" {
			return nil, NewTenantScopeError(cfg.EntityType)
		}
		expr.TenantField = cfg.TenantField
		expr.TenantID = tenantID
	}

	return expr, nil
}

// classify decides the predicate kind for one declared filterable field.
// Declared text fields match by substring even on exact-looking input; list
// values become set membership; everything else is an exact match.
func classify(field string, value interface{}, textFields map[string]struct{}) Predicate {
	if _, isText := textFields[field]; isText {
		return Match(value)
	}
	switch v := value.(type) {
	case []interface{}:
		return In(v...)
	case []string:
		values := make([]interface{}, len(v))
		for i, s := range v {
			values[i] = s
		}
		return In(values...)
	default:
		return Equals(value)
	}
}

// parseDayBound parses a date input into the inclusive bound for its calendar
// day: 00:00:00.000 for a lower bound, 23:59:59.999 for an upper bound.
// An empty input yields a nil, open bound.
func parseDayBound(value, field string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, NewInvalidFilterValueError(field, value, fmt.Errorf("unrecognized date: %w", err))
	}

	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location())
	if upper {
		day = day.Add(24*time.Hour - time.Millisecond)
	}
	return &day, nil
}
