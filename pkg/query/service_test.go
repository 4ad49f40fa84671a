package query

import (
	"errors"
	"reflect"
	"testing"
)

func newTestFactory(t *testing.T, exec Executor, cfgs ...EntityConfig) *Factory {
	t.Helper()
	registry := NewRegistry()
	for _, cfg := range cfgs {
		if err := registry.Register(cfg); err != nil {
			t.Fatalf("register %s: %v", cfg.EntityType, err)
		}
	}
	engine := newTestEngine(t, exec)
	f, err := NewFactory(registry, engine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestNewFactory_NilDependencies(t *testing.T) {
	registry := NewRegistry()
	engine := newTestEngine(t, &fakeExecutor{})

	if _, err := NewFactory(nil, engine); err == nil {
		t.Fatal("expected error for nil registry")
	}
	if _, err := NewFactory(registry, nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestCreateService_UnknownEntityType(t *testing.T) {
	f := newTestFactory(t, &fakeExecutor{}, testConfig())
	_, err := f.CreateService("unicorns", nil)
	var unknown *UnknownEntityTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownEntityTypeError, got %v", err)
	}
	if unknown.EntityType != "unicorns" {
		t.Fatalf("entity type = %q", unknown.EntityType)
	}
}

func TestCreateService_NoOverridesUsesRegisteredConfig(t *testing.T) {
	f := newTestFactory(t, &fakeExecutor{}, testConfig())
	svc, err := f.CreateService("cases", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(svc.Config(), testConfig()) {
		t.Fatalf("config = %+v", svc.Config())
	}
}

func TestCreateService_OverridesDoNotMutateRegistered(t *testing.T) {
	f := newTestFactory(t, &fakeExecutor{}, testConfig())

	svc, err := f.CreateService("cases", &Overrides{
		FilterableFields: []string{"status"},
		TextFilterFields: []string{},
		MaxLimit:         25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := svc.Config()
	if !reflect.DeepEqual(got.FilterableFields, []string{"status"}) || got.MaxLimit != 25 {
		t.Fatalf("merged config = %+v", got)
	}

	// a second service without overrides still sees the registered config
	plain, err := f.CreateService("cases", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plain.Config(), testConfig()) {
		t.Fatalf("registered config was mutated: %+v", plain.Config())
	}
}

func TestCreateService_InvalidOverridesRejected(t *testing.T) {
	f := newTestFactory(t, &fakeExecutor{}, testConfig())

	// narrowing filterable fields below the text filter set breaks the
	// subset invariant of the merged config
	if _, err := f.CreateService("cases", &Overrides{FilterableFields: []string{"status"}}); err == nil {
		t.Fatal("expected merged-config validation to fail")
	}
	if _, err := f.CreateService("cases", &Overrides{MaxLimit: -1}); err != nil {
		t.Fatalf("zero-valued override fields must be ignored, got %v", err)
	}
}

func TestService_PaginateDelegates(t *testing.T) {
	exec := &fakeExecutor{docs: []Document{{"_id": "c1"}}, total: 1}
	f := newTestFactory(t, exec, testConfig())
	svc, err := f.CreateService("cases", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Paginate(tenantCtx(), Request{Limit: 5}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pagination.TotalRecords != 1 {
		t.Fatalf("totalRecords = %d", res.Pagination.TotalRecords)
	}
	q := exec.lastFetch(t)
	if q.Collection != "cases" || q.Limit != 5 {
		t.Fatalf("query = %+v", q)
	}
}

func TestService_SearchAcrossRelatedWiring(t *testing.T) {
	child, parent := relatedConfigs()
	exec := &fakeExecutor{ids: []interface{}{"case-1"}}
	f := newTestFactory(t, exec, child, parent)
	svc, err := f.CreateService("reports", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.SearchAcrossRelated(tenantCtx(), Request{Search: "Doe"}, RelatedSearch{ParentType: "cases", ForeignKey: "case_id"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.resolveQueries) != 1 || exec.resolveQueries[0].Collection != "cases" {
		t.Fatalf("resolve queries = %+v", exec.resolveQueries)
	}

	_, err = svc.SearchAcrossRelated(tenantCtx(), Request{Search: "Doe"}, RelatedSearch{ParentType: "unicorns", ForeignKey: "case_id"})
	var unknown *UnknownEntityTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownEntityTypeError for the parent type, got %v", err)
	}

	if _, err := svc.SearchAcrossRelated(tenantCtx(), Request{Search: "Doe"}, RelatedSearch{ParentType: "cases"}); err == nil {
		t.Fatal("expected error for missing foreign key")
	}
}
