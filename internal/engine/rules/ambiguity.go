package rules

import (
	"fmt"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// AmbiguityRule (E110) reports pairs of tools whose descriptions are too
// similar for a model to tell apart. Each tool of a pair gets its own
// diagnostic.
type AmbiguityRule struct{}

func NewAmbiguityRule() *AmbiguityRule {
	return &AmbiguityRule{}
}

func (r *AmbiguityRule) Code() string { return "E110" }

func (r *AmbiguityRule) Name() string { return "Tool Ambiguity" }

func (r *AmbiguityRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	pos := make(map[string]int, len(rc.Tools))
	for i, t := range rc.Tools {
		pos[t.Name] = i
	}

	var diags []engine.Diagnostic
	for i, a := range rc.Tools {
		if len(a.DescriptionTokens) == 0 {
			continue
		}
		// Only tools sharing at least one token can overlap.
		candidates := make(map[int]bool)
		for tok := range a.DescriptionTokens {
			for _, name := range rc.Indexes.ToolsWithToken(tok) {
				if j, ok := pos[name]; ok && j > i {
					candidates[j] = true
				}
			}
		}
		for j := i + 1; j < len(rc.Tools); j++ {
			if !candidates[j] {
				continue
			}
			b := rc.Tools[j]
			sim := jaccard(a.DescriptionTokens, b.DescriptionTokens)
			if sim < engine.AmbiguityFloor {
				continue
			}
			diags = append(diags, r.diagnostic(a.Name, b.Name, sim), r.diagnostic(b.Name, a.Name, sim))
		}
	}
	return diags, nil
}

func (r *AmbiguityRule) diagnostic(tool, other string, sim float64) engine.Diagnostic {
	return engine.Diagnostic{
		Code:       r.Code(),
		Severity:   engine.SeverityError,
		Tool:       tool,
		Message:    fmt.Sprintf("description is ambiguous with tool %q (similarity %.2f)", other, sim),
		Suggestion: "Describe what distinguishes this tool from the other one.",
		Context: map[string]any{
			"other_tool": other,
			"similarity": sim,
		},
	}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
