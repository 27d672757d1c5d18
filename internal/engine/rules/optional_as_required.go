package rules

import (
	"fmt"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// OptionalAsRequiredRule (W105) tracks data flow along inferred edges and
// flags a nullable output wired into a required input.
type OptionalAsRequiredRule struct{}

func NewOptionalAsRequiredRule() *OptionalAsRequiredRule {
	return &OptionalAsRequiredRule{}
}

func (r *OptionalAsRequiredRule) Code() string { return "W105" }

func (r *OptionalAsRequiredRule) Name() string { return "Optional As Required" }

func (r *OptionalAsRequiredRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, d := range rc.Dependencies {
		from, ok := rc.Indexes.Tool(d.FromTool)
		if !ok {
			continue
		}
		to, ok := rc.Indexes.Tool(d.ToTool)
		if !ok {
			continue
		}
		out := findField(from.Outputs, d.FromField)
		in := to.Input(d.ToField)
		if out == nil || in == nil || !out.Nullable || !in.Required {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			Code:     r.Code(),
			Severity: engine.SeverityWarning,
			Tool:     to.Name,
			Field:    in.Name,
			Message: fmt.Sprintf("required input %q is fed by nullable output %s.%s",
				in.Name, from.Name, out.Name),
			Suggestion: "Make the output non-nullable or the input optional.",
			Context: map[string]any{
				"from_tool":  from.Name,
				"from_field": out.Name,
				"confidence": d.Confidence,
			},
		})
	}
	return diags, nil
}

func findField(fields []*contract.FieldSpec, name string) *contract.FieldSpec {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}
