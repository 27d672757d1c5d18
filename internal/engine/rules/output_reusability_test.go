package rules

import (
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestOutputNotReusable_SingleDisplayString(t *testing.T) {
	rc := newContext(t, contract.RawTool{
		Name:         "greet",
		OutputSchema: obj(map[string]any{"message": typed("string")}),
	})
	diags := check(t, NewOutputNotReusableRule(), rc)
	if len(diags) != 1 {
		t.Fatalf("expected 1 W109, got %d", len(diags))
	}
	if diags[0].Context["legacy_code"] != "W010" {
		t.Fatalf("expected legacy alias W010, got %+v", diags[0].Context)
	}
}

func TestOutputNotReusable_Passes(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{Name: "multi", OutputSchema: obj(map[string]any{"message": typed("string"), "id": typed("string")})},
		contract.RawTool{Name: "structured", OutputSchema: obj(map[string]any{"user": obj(map[string]any{"id": typed("string")})})},
		contract.RawTool{Name: "count", OutputSchema: obj(map[string]any{"total": typed("integer")})},
		contract.RawTool{Name: "none"},
	)
	if diags := check(t, NewOutputNotReusableRule(), rc); len(diags) != 0 {
		t.Fatalf("expected no W109, got %+v", diags)
	}
}

func TestOutputNotReusable_LoneIdentifierIsReusable(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{Name: "set_limit", OutputSchema: obj(map[string]any{"id": typed("string")})},
		contract.RawTool{Name: "create_order", OutputSchema: obj(map[string]any{"orderUUID": typed("string")})},
	)
	if diags := check(t, NewOutputNotReusableRule(), rc); len(diags) != 0 {
		t.Fatalf("expected no W109 for identifier outputs, got %+v", diags)
	}

	rc = newContext(t, contract.RawTool{Name: "idea", OutputSchema: obj(map[string]any{"idea": typed("string")})})
	if diags := check(t, NewOutputNotReusableRule(), rc); len(diags) != 1 {
		t.Fatalf("expected W109 for a non-identifier string, got %d", len(diags))
	}
}
