package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
	"github.com/triage-ai/palisade/services/tool_audit/internal/semantic"
)

// SensitiveParameterRule (E112) flags inputs, at any nesting depth, that
// carry secrets or personal data.
type SensitiveParameterRule struct{}

func NewSensitiveParameterRule() *SensitiveParameterRule {
	return &SensitiveParameterRule{}
}

func (r *SensitiveParameterRule) Code() string { return "E112" }

func (r *SensitiveParameterRule) Name() string { return "Sensitive Parameter" }

func (r *SensitiveParameterRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		for _, fp := range contract.Flatten(t.Inputs) {
			emb := t.InputEmbeddings[fp.Path]
			if !rc.Matcher.IsConceptMatch(emb, semantic.Sensitive, semantic.FieldConceptThreshold) {
				continue
			}
			diags = append(diags, engine.Diagnostic{
				Code:       r.Code(),
				Severity:   engine.SeverityError,
				Tool:       t.Name,
				Field:      fp.Path,
				Message:    fmt.Sprintf("input %q looks like sensitive data", fp.Path),
				Suggestion: "Keep secrets out of tool arguments; resolve credentials server-side.",
				Context:    map[string]any{"concept": string(semantic.Sensitive)},
			})
		}
	}
	return diags, nil
}
