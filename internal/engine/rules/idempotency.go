package rules

import (
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
	"github.com/triage-ai/palisade/services/tool_audit/internal/semantic"
)

// IdempotencyRule (W117) flags mutating tools that give no signal that
// retrying them is safe.
type IdempotencyRule struct{}

func NewIdempotencyRule() *IdempotencyRule {
	return &IdempotencyRule{}
}

func (r *IdempotencyRule) Code() string { return "W117" }

func (r *IdempotencyRule) Name() string { return "Idempotency Signal Missing" }

func (r *IdempotencyRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		mutates := rc.Matcher.IsConceptMatch(t.DescriptionEmbedding, semantic.Mutation, semantic.ToolConceptThreshold)
		if !mutates {
			continue
		}
		if rc.Matcher.IsConceptMatch(t.DescriptionEmbedding, semantic.Idempotent, semantic.ToolConceptThreshold) {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Message:    "tool mutates state but says nothing about idempotency",
			Suggestion: "State whether retries are safe, or accept an idempotency key.",
		})
	}
	return diags, nil
}
