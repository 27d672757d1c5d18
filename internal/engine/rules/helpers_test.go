package rules

import (
	"testing"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/depgraph"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
	"github.com/triage-ai/palisade/services/tool_audit/internal/index"
	"github.com/triage-ai/palisade/services/tool_audit/internal/semantic"
)

// newContext runs the real normalize/index/infer stages so rules see the
// same facts they see in production.
func newContext(t *testing.T, raw ...contract.RawTool) *engine.RuleContext {
	t.Helper()
	table := semantic.New()
	tools, _ := contract.NewNormalizer(table.Embedder()).Normalize(raw)
	idx := index.Build(tools)
	return engine.NewRuleContext(tools, idx, depgraph.Infer(tools, idx), table)
}

func check(t *testing.T, r engine.Rule, rc *engine.RuleContext) []engine.Diagnostic {
	t.Helper()
	diags, err := r.Check(rc)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", r.Code(), err)
	}
	for _, d := range diags {
		if d.Code != r.Code() {
			t.Fatalf("expected code %s, got %s", r.Code(), d.Code)
		}
	}
	return diags
}

func obj(props map[string]any, required ...any) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func typed(typ string) map[string]any {
	return map[string]any{"type": typ}
}
