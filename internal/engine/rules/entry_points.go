package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// MultipleEntryPointsRule (W107) flags an input name that several tools ask
// the user for directly, outside any inferred dependency chain.
type MultipleEntryPointsRule struct{}

func NewMultipleEntryPointsRule() *MultipleEntryPointsRule {
	return &MultipleEntryPointsRule{}
}

func (r *MultipleEntryPointsRule) Code() string { return "W107" }

func (r *MultipleEntryPointsRule) Name() string { return "Multiple Entry Points" }

func (r *MultipleEntryPointsRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	names := make([]string, 0, len(rc.Indexes.Inputs))
	for name := range rc.Indexes.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	pos := make(map[string]int, len(rc.Tools))
	for i, t := range rc.Tools {
		pos[strings.ToLower(t.Name)] = i
	}

	var diags []engine.Diagnostic
	for _, name := range names {
		var tools []string
		seen := make(map[string]bool)
		field := ""
		for _, f := range rc.Indexes.Inputs[name] {
			key := strings.ToLower(f.Tool)
			if seen[key] || rc.IsFed(f.Tool, f.Name) {
				continue
			}
			seen[key] = true
			tools = append(tools, f.Tool)
			if field == "" {
				field = f.Name
			}
		}
		if len(tools) < 2 {
			continue
		}
		sort.Slice(tools, func(i, j int) bool {
			return pos[strings.ToLower(tools[i])] < pos[strings.ToLower(tools[j])]
		})
		diags = append(diags, engine.Diagnostic{
			Code:     r.Code(),
			Severity: engine.SeverityWarning,
			Tool:     tools[0],
			Field:    field,
			Message: fmt.Sprintf("input %q is an entry point in %d tools (%s)",
				field, len(tools), strings.Join(tools, ", ")),
			Suggestion: "Let one tool resolve the value and have the others consume its output.",
			Context:    map[string]any{"tools": tools},
		})
	}
	return diags, nil
}
