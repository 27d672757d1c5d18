package rules

import (
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
)

func TestOptionalAsRequired_NullableIntoRequired(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{
			Name: "find_order",
			OutputSchema: obj(map[string]any{
				"order_id": map[string]any{"type": []any{"string", "null"}},
			}),
		},
		contract.RawTool{
			Name:        "ship_order",
			InputSchema: obj(map[string]any{"order_id": typed("string")}, "order_id"),
		},
	)
	diags := check(t, NewOptionalAsRequiredRule(), rc)
	if len(diags) != 1 {
		t.Fatalf("expected 1 W105, got %d", len(diags))
	}
	d := diags[0]
	if d.Tool != "ship_order" || d.Field != "order_id" || d.Context["from_tool"] != "find_order" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}

func TestOptionalAsRequired_Passes(t *testing.T) {
	rc := newContext(t,
		contract.RawTool{
			Name: "find_order",
			OutputSchema: obj(map[string]any{
				"order_id": map[string]any{"type": "string", "nullable": true},
				"sku":      typed("string"),
			}),
		},
		contract.RawTool{
			Name:        "ship_order",
			InputSchema: obj(map[string]any{"order_id": typed("string"), "sku": typed("string")}, "sku"),
		},
	)
	if diags := check(t, NewOptionalAsRequiredRule(), rc); len(diags) != 0 {
		t.Fatalf("expected no W105, got %+v", diags)
	}
}
