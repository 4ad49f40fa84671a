package query

// Request carries one pagination call's raw parameters. It is transient:
// created per call, translated, and discarded. The Filters map is the open,
// untyped part of the contract; everything the engine relies on for safety
// (visibility, tenant scope) has its own typed field and is never read from
// Filters.
type Request struct {
	// Page is the 1-based page index. Values below 1 clamp to 1.
	Page int
	// Limit is the requested page size. Absent or invalid values fall back
	// to the entity default; values above the entity ceiling clamp to it.
	Limit int
	// Sort is a comma-separated field list; a leading '-' marks descending.
	Sort string
	// Search is the free-text term ORed over the entity's searchable fields.
	Search string
	// Expand lists relation paths to resolve. When non-nil it fully
	// replaces the entity's default expansion.
	Expand []string
	// Select projects the returned documents to the listed fields.
	Select []string
	// StartDate and EndDate bound the entity's date field by calendar day,
	// inclusive on both sides. Accepted layouts: 2006-01-02 or RFC 3339.
	StartDate string
	EndDate   string
	// IncludeDeleted widens visibility to live plus soft-deleted records.
	IncludeDeleted bool
	// OnlyDeleted restricts visibility to soft-deleted records. When both
	// flags are set, OnlyDeleted wins.
	OnlyDeleted bool
	// Debug logs the resolved expression before execution.
	Debug bool
	// Filters holds entity-specific field constraints: value or value list
	// per filterable field. Keys not declared filterable are ignored.
	Filters map[string]interface{}
}

// visibility resolves the soft-delete mode from the two request flags.
// OnlyDeleted deliberately takes precedence when both are set.
func (r Request) visibility() Visibility {
	switch {
	case r.OnlyDeleted:
		return VisibilityDeleted
	case r.IncludeDeleted:
		return VisibilityAll
	default:
		return VisibilityLive
	}
}
