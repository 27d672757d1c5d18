package rules

import (
	"fmt"
	"strings"

	"github.com/triage-ai/palisade/services/tool_audit/internal/depgraph"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

// CircularDependencyRule (E008) reports directed cycles among
// high-confidence dependency edges.
type CircularDependencyRule struct{}

func NewCircularDependencyRule() *CircularDependencyRule {
	return &CircularDependencyRule{}
}

func (r *CircularDependencyRule) Code() string { return "E008" }

func (r *CircularDependencyRule) Name() string { return "Circular Dependency" }

func (r *CircularDependencyRule) Check(rc *engine.RuleContext) ([]engine.Diagnostic, error) {
	g := depgraph.NewGraph(rc.Dependencies, engine.CycleConfidenceFloor)

	var diags []engine.Diagnostic
	for _, cycle := range g.FindCycles() {
		path := append(append([]string{}, cycle...), cycle[0])
		diags = append(diags, engine.Diagnostic{
			Code:       r.Code(),
			Severity:   engine.SeverityError,
			Tool:       cycle[0],
			Message:    fmt.Sprintf("circular dependency: %s", strings.Join(path, " -> ")),
			Suggestion: "Break the cycle so at least one tool in it can run without another tool's output.",
			Context: map[string]any{
				"cycle": cycle,
				"edges": cycleEdges(rc.Dependencies, path),
			},
		})
	}
	return diags, nil
}

// cycleEdges picks the qualifying edges along consecutive pairs of path.
func cycleEdges(deps []depgraph.Dependency, path []string) []depgraph.Dependency {
	var edges []depgraph.Dependency
	for i := 0; i+1 < len(path); i++ {
		for _, d := range deps {
			if d.Confidence >= engine.CycleConfidenceFloor &&
				strings.EqualFold(d.FromTool, path[i]) &&
				strings.EqualFold(d.ToTool, path[i+1]) {
				edges = append(edges, d)
			}
		}
	}
	return edges
}
