// Package catalog declares the entity configurations of the record-management
// backend. Everything queryable about an entity type lives here; no entity has
// query code of its own.
package catalog

import "github.com/caseflow/caseflow/pkg/query"

// Entity type names as registered.
const (
	Cases     = "cases"
	Documents = "documents"
	Tasks     = "tasks"
	Invoices  = "invoices"
	Firms     = "firms"
	Reports   = "reports"
)

// Collection names backing the entity types.
const (
	casesCollection     = "cases"
	documentsCollection = "documents"
	tasksCollection     = "tasks"
	invoicesCollection  = "invoices"
	firmsCollection     = "firms"
	reportsCollection   = "reports"
	usersCollection     = "users"
)

// NewRegistry builds the registry with every standard entity registered.
// It panics on a malformed declaration; the catalog is static and a bad entry
// is a programming error caught at startup.
func NewRegistry() *query.Registry {
	registry := query.NewRegistry()
	registry.MustRegister(
		casesConfig(),
		documentsConfig(),
		tasksConfig(),
		invoicesConfig(),
		firmsConfig(),
		reportsConfig(),
	)
	return registry
}

func casesConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Cases,
		Collection:       casesCollection,
		SearchableFields: []string{"title", "suit_number", "client_name"},
		FilterableFields: []string{
			"status", "priority", "category", "account_officer_id",
			"suit_number", "court", "state", "client_name",
		},
		TextFilterFields: []string{"suit_number", "court", "state", "client_name"},
		DefaultSort:      "-created_at",
		DateField:        "filed_at",
		MaxLimit:         100,
		DefaultExpansion: []string{"account_officer"},
		Relations: map[string]query.Relation{
			"account_officer": {Collection: usersCollection, LocalField: "account_officer_id", ForeignField: "_id"},
			"firm":            {Collection: firmsCollection, LocalField: "firm_id", ForeignField: "_id"},
		},
		TenantRequired: true,
		TenantField:    "firm_id",
		DeletedField:   "is_deleted",
		IDField:        "_id",
	}
}

func documentsConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Documents,
		Collection:       documentsCollection,
		SearchableFields: []string{"title", "reference", "notes"},
		FilterableFields: []string{"kind", "status", "case_id", "reference", "uploaded_by"},
		TextFilterFields: []string{"reference"},
		DefaultSort:      "-uploaded_at",
		DateField:        "uploaded_at",
		MaxLimit:         50,
		DefaultExpansion: []string{"case"},
		Relations: map[string]query.Relation{
			"case": {Collection: casesCollection, LocalField: "case_id", ForeignField: "_id"},
		},
		TenantRequired: true,
		TenantField:    "firm_id",
		DeletedField:   "is_deleted",
		IDField:        "_id",
	}
}

func tasksConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Tasks,
		Collection:       tasksCollection,
		SearchableFields: []string{"title", "description"},
		FilterableFields: []string{"status", "priority", "assignee_id", "case_id"},
		DefaultSort:      "due_at",
		DateField:        "due_at",
		MaxLimit:         100,
		DefaultExpansion: []string{"assignee"},
		Relations: map[string]query.Relation{
			"assignee": {Collection: usersCollection, LocalField: "assignee_id", ForeignField: "_id"},
			"case":     {Collection: casesCollection, LocalField: "case_id", ForeignField: "_id"},
		},
		TenantRequired: true,
		TenantField:    "firm_id",
		DeletedField:   "is_deleted",
		IDField:        "_id",
	}
}

func invoicesConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Invoices,
		Collection:       invoicesCollection,
		SearchableFields: []string{"invoice_number", "client_name"},
		FilterableFields: []string{"status", "case_id", "invoice_number", "client_name"},
		TextFilterFields: []string{"invoice_number", "client_name"},
		DefaultSort:      "-issued_at",
		DateField:        "issued_at",
		MaxLimit:         100,
		Relations: map[string]query.Relation{
			"case": {Collection: casesCollection, LocalField: "case_id", ForeignField: "_id"},
		},
		TenantRequired: true,
		TenantField:    "firm_id",
		DeletedField:   "is_deleted",
		IDField:        "_id",
	}
}

// firmsConfig is the one platform-level entity: firms are the tenants
// themselves, so their listing is not scoped to a tenant.
func firmsConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Firms,
		Collection:       firmsCollection,
		SearchableFields: []string{"name", "email"},
		FilterableFields: []string{"name", "email", "plan", "active"},
		TextFilterFields: []string{"name", "email"},
		DefaultSort:      "name",
		DateField:        "created_at",
		MaxLimit:         100,
		DeletedField:     "is_deleted",
		IDField:          "_id",
	}
}

func reportsConfig() query.EntityConfig {
	return query.EntityConfig{
		EntityType:       Reports,
		Collection:       reportsCollection,
		SearchableFields: []string{"summary"},
		FilterableFields: []string{"case_id", "author_id", "kind"},
		DefaultSort:      "-reported_at",
		DateField:        "reported_at",
		MaxLimit:         50,
		DefaultExpansion: []string{"case"},
		Relations: map[string]query.Relation{
			"case":   {Collection: casesCollection, LocalField: "case_id", ForeignField: "_id"},
			"author": {Collection: usersCollection, LocalField: "author_id", ForeignField: "_id"},
		},
		TenantRequired: true,
		TenantField:    "firm_id",
		DeletedField:   "is_deleted",
		IDField:        "_id",
	}
}

// CaseReportSearch is the related-search binding for filtering reports by
// attributes of the case they report on, e.g. its suit number.
func CaseReportSearch() query.RelatedSearch {
	return query.RelatedSearch{ParentType: Cases, ForeignKey: "case_id"}
}
