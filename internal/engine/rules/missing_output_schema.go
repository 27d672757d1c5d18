package rules

import (
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// MissingOutputSchemaRule (E100) flags tools that take input or claim to
// return data but declare no outputs.
type MissingOutputSchemaRule struct{}

func NewMissingOutputSchemaRule() *MissingOutputSchemaRule {
	return &MissingOutputSchemaRule{}
}

func (r *MissingOutputSchemaRule) Code() string { return "E100" }

func (r *MissingOutputSchemaRule) Name() string { return "Missing Output Schema" }

func (r *MissingOutputSchemaRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		if len(t.Outputs) > 0 {
			continue
		}
		keyword := ""
		for tok := range t.DescriptionTokens {
			if returnsDataWords[tok] && (keyword == "" || tok < keyword) {
				keyword = tok
			}
		}
		if len(t.Inputs) == 0 && keyword == "" {
			continue
		}

		ctx := map[string]any{"input_count": len(t.Inputs)}
		if keyword != "" {
			ctx["keyword"] = keyword
		}
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityError,
			Tool:       t.Name,
			Message:    "tool declares no output schema",
			Suggestion: "Add an outputSchema describing the fields the tool returns.",
			Context:    ctx,
		})
	}
	return diags, nil
}
