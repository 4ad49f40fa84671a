package tenant

import (
	"context"
	"testing"
)

func TestFromContext_Present(t *testing.T) {
	ctx := WithTenant(context.Background(), "firm-42")
	id, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected tenant to be present")
	}
	if id != "firm-42" {
		t.Fatalf("tenant = %q, want firm-42", id)
	}
}

func TestFromContext_Absent(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no tenant on bare context")
	}
}

func TestFromContext_EmptyID(t *testing.T) {
	ctx := WithTenant(context.Background(), "")
	if _, ok := FromContext(ctx); ok {
		t.Fatal("empty tenant identifier must not count as present")
	}
}

func TestFromContext_NilContext(t *testing.T) {
	if _, ok := FromContext(nil); ok {
		t.Fatal("nil context must yield no tenant")
	}
}
