package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// MissingExamplesRule (W003) asks for examples on user-facing inputs: those
// that are required and not fed by any other tool.
type MissingExamplesRule struct{}

func NewMissingExamplesRule() *MissingExamplesRule {
	return &MissingExamplesRule{}
}

func (r *MissingExamplesRule) Code() string { return "W003" }

func (r *MissingExamplesRule) Name() string { return "Missing Examples" }

func (r *MissingExamplesRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		for _, f := range t.Inputs {
			if !f.Required || f.HasExample || rc.IsFed(t.Name, f.Name) {
				continue
			}
			diags = append(diags, engine.Diagnostic{
				Code:       r.Code(),
				Severity:   engine.SeverityWarning,
				Tool:       t.Name,
				Field:      f.Name,
				Message:    fmt.Sprintf("user-facing input %q has no example", f.Name),
				Suggestion: "Add an \"examples\" array with at least one realistic value.",
			})
		}
	}
	return diags, nil
}
