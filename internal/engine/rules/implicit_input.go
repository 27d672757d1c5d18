package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// ImplicitInputRule (E108) verifies that every required input can be fed by
// some other tool's output rather than silently requiring a human.
type ImplicitInputRule struct{}

func NewImplicitInputRule() *ImplicitInputRule {
	return &ImplicitInputRule{}
}

func (r *ImplicitInputRule) Code() string { return "E108" }

func (r *ImplicitInputRule) Name() string { return "Implicit User Input" }

func (r *ImplicitInputRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		for _, f := range t.Inputs {
			if !f.Required || rc.IsFed(t.Name, f.Name) {
				continue
			}
			diags = append(diags, engine.Diagnostic{
				Code:       r.Code(),
				Severity:   engine.SeverityError,
				Tool:       t.Name,
				Field:      f.Name,
				Message:    fmt.Sprintf("required input %q is not produced by any other tool and must come from the user", f.Name),
				Suggestion: "Make the input optional, or expose a tool whose output provides it.",
				Context:    map[string]any{"type": f.Type.String()},
			})
		}
	}
	return diags, nil
}
