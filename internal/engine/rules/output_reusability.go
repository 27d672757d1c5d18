package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// LegacyOutputNotReusableCode is the code W109 was published under before.
const LegacyOutputNotReusableCode = "W010"

var displayFieldNames = map[string]bool{
	"message": true, "text": true, "result": true, "output": true,
	"summary": true, "description": true, "display": true, "content": true,
	"response": true, "info": true, "details": true, "markdown": true, "html": true,
}

// OutputNotReusableRule (W109, formerly W010) flags tools whose only output
// is a scalar meant for display rather than for other tools. A lone
// identifier is the tool's result, not display text.
type OutputNotReusableRule struct{}

func NewOutputNotReusableRule() *OutputNotReusableRule {
	return &OutputNotReusableRule{}
}

func (r *OutputNotReusableRule) Code() string { return "W109" }

func (r *OutputNotReusableRule) Name() string { return "Output Not Reusable" }

func (r *OutputNotReusableRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		if len(t.Outputs) != 1 {
			continue
		}
		out := t.Outputs[0]
		if out.Type.Structured() {
			continue
		}
		if isIDName(out.Name) {
			continue
		}
		isString := out.Type.NonNull().Equal(contract.FieldType{contract.KindString})
		if !isString && !displayFieldNames[contract.CanonicalName(out.Name)] {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityWarning,
			Tool:       t.Name,
			Field:      out.Name,
			Message:    fmt.Sprintf("only output %q is a display-oriented %s", out.Name, out.Type),
			Suggestion: "Return structured fields other tools can consume.",
			Context:    map[string]any{"legacy_code": LegacyOutputNotReusableCode},
		})
	}
	return diags, nil
}
