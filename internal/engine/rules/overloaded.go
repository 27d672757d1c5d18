package rules

import (
	"fmt"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// OverloadedResponsibilityRule (W103) flags descriptions naming more than
// engine.MaxActionVerbs distinct actions.
type OverloadedResponsibilityRule struct{}

func NewOverloadedResponsibilityRule() *OverloadedResponsibilityRule {
	return &OverloadedResponsibilityRule{}
}

func (r *OverloadedResponsibilityRule) Code() string { return "W103" }

func (r *OverloadedResponsibilityRule) Name() string { return "Overloaded Responsibility" }

func (r *OverloadedResponsibilityRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		verbs := descriptionVerbs(t.Description)
		if len(verbs) <= engine.MaxActionVerbs {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Message:    fmt.Sprintf("description names %d actions (%s)", len(verbs), strings.Join(verbs, ", ")),
			Suggestion: "Split the tool into smaller tools with one responsibility each.",
			Context:    map[string]any{"verbs": verbs},
		})
	}
	return diags, nil
}
