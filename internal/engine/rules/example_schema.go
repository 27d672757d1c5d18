package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// ExampleSchemaRule (W004) validates every input example against the
// input's own property schema. Property schemas that do not compile on their
// own (for example an unresolved $ref into the parent document) are skipped.
type ExampleSchemaRule struct{}

func NewExampleSchemaRule() *ExampleSchemaRule {
	return &ExampleSchemaRule{}
}

func (r *ExampleSchemaRule) Code() string { return "W004" }

func (r *ExampleSchemaRule) Name() string { return "Example Violates Schema" }

func (r *ExampleSchemaRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	for _, t := range rc.Tools {
		for _, fp := range contract.Flatten(t.Inputs) {
			f := fp.Field
			if !f.HasExample || f.Schema == nil {
				continue
			}
			sch, err := contract.CompileSchema(withoutExamples(f.Schema))
			if err != nil {
				continue
			}
			if err := contract.ValidateValue(sch, f.Example); err != nil {
				diags = append(diags, engine.Diagnostic{
					Code:       r.Code(),
					Severity:   engine.SeverityWarning,
					Tool:       t.Name,
					Field:      fp.Path,
					Message:    fmt.Sprintf("example for %q does not match its schema", fp.Path),
					Suggestion: "Fix the example or the schema so they agree.",
					Context: map[string]any{
						"example": f.Example,
						"error":   err.Error(),
					},
				})
			}
		}
	}
	return diags, nil
}

// withoutExamples drops annotation keywords that carry example values;
// they never affect validation but may hold values of any shape.
func withoutExamples(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		if k == "examples" || k == "example" {
			continue
		}
		out[k] = v
	}
	return out
}
