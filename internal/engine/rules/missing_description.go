package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// MissingToolDescriptionRule (W001) flags tools without a description.
type MissingToolDescriptionRule struct{}

func NewMissingToolDescriptionRule() *MissingToolDescriptionRule {
	return &MissingToolDescriptionRule{}
}

func (r *MissingToolDescriptionRule) Code() string { return "W001" }

func (r *MissingToolDescriptionRule) Name() string { return "Missing Tool Description" }

func (r *MissingToolDescriptionRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		if t.Description != "" {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Message:    "tool has no description",
			Suggestion: "Describe what the tool does and when to use it.",
		})
	}
	return diags, nil
}

// MissingParameterDescriptionRule (W002) flags top-level inputs without a
// description.
type MissingParameterDescriptionRule struct{}

func NewMissingParameterDescriptionRule() *MissingParameterDescriptionRule {
	return &MissingParameterDescriptionRule{}
}

func (r *MissingParameterDescriptionRule) Code() string { return "W002" }

func (r *MissingParameterDescriptionRule) Name() string { return "Missing Parameter Description" }

func (r *MissingParameterDescriptionRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		for _, f := range t.Inputs {
			if f.Description != "" {
				continue
			}
			diags = append(diags, engine.Diagnostic{
				Code:       r.Code(),
				Severity:   engine.SeverityWarning,
				Tool:       t.Name,
				Field:      f.Name,
				Message:    fmt.Sprintf("input %q has no description", f.Name),
				Suggestion: "Add a description stating the expected value and format.",
			})
		}
	}
	return diags, nil
}
