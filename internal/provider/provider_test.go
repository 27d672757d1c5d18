package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestStaticProvider_ReturnsCopy(t *testing.T) {
	src := []contract.RawTool{{Name: "a"}, {Name: "b"}}
	p := NewStaticProvider("", src)
	if p.Name() != "static" {
		t.Fatalf("expected default name, got %q", p.Name())
	}

	tools, err := p.ListTools(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	tools[0].Name = "mutated"
	if src[0].Name != "a" {
		t.Fatal("expected source slice untouched")
	}
}

func TestStaticProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStaticProvider("s", nil).ListTools(ctx)
	if !errors.Is(err, ErrProvider) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped cancellation, got %v", err)
	}
}

func TestWrap_DoesNotDoubleWrap(t *testing.T) {
	inner := wrap("inner", errors.New("boom"))
	outer := wrap("outer", fmt.Errorf("ctx: %w", inner))
	if outer.Error() != "ctx: provider error: inner: boom" {
		t.Fatalf("unexpected message %q", outer.Error())
	}
	if wrap("x", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
