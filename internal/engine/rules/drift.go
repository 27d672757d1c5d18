package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// SchemaDriftRule (W116) flags descriptions that no longer mention most of
// the tool's parameters.
type SchemaDriftRule struct{}

func NewSchemaDriftRule() *SchemaDriftRule {
	return &SchemaDriftRule{}
}

func (r *SchemaDriftRule) Code() string { return "W116" }

func (r *SchemaDriftRule) Name() string { return "Schema-Description Drift" }

func (r *SchemaDriftRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		if len(t.Inputs) == 0 {
			continue
		}
		var missing []string
		for _, f := range t.Inputs {
			if !mentioned(t, f.Name) {
				missing = append(missing, f.Name)
			}
		}
		frac := float64(len(missing)) / float64(len(t.Inputs))
		if frac <= engine.DriftFraction {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:     r.Code(),
			Severity: engine.SeverityWarning,
			Tool:     t.Name,
			Message: fmt.Sprintf("description mentions %d of %d parameters",
				len(t.Inputs)-len(missing), len(t.Inputs)),
			Suggestion: "Update the description to cover the parameters the tool takes.",
			Context: map[string]any{
				"missing":  missing,
				"fraction": frac,
			},
		})
	}
	return diags, nil
}

// mentioned is true when the description contains the parameter name as a
// token, or every word of a compound name ("user_id" -> "user", "id").
func mentioned(t *contract.ToolSpec, name string) bool {
	if t.HasToken(contract.CanonicalName(name)) {
		return true
	}
	parts := contract.SplitIdentifier(name)
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !t.HasToken(p) {
			return false
		}
	}
	return true
}
