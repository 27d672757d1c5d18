package engine

import (
	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/depgraph"
	"github.com/triage-ai/palisade/services/tool_audit/internal/index"
	"github.com/triage-ai/palisade/services/tool_audit/internal/semantic"
)

// Rule is the interface every contract check must implement.
// Rules are stateless and must not mutate the context.
type Rule interface {
	// Code returns the rule's stable diagnostic code, e.g. "E008".
	Code() string

	// Name returns a short human-readable title.
	Name() string

	// Check inspects the tool list and returns zero or more findings.
	Check(rc *RuleContext) ([]Diagnostic, error)
}

// Severity classifies a diagnostic. Only the aggregator maps severities to
// a verdict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one finding produced by a rule.
type Diagnostic struct {
	Code       string         `json:"code"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	Tool       string         `json:"tool,omitempty"`
	Field      string         `json:"field,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// RuleContext contains everything a rule may read.
type RuleContext struct {
	Tools        []*contract.ToolSpec
	Indexes      *index.Indexes
	Dependencies []depgraph.Dependency
	Matcher      semantic.Matcher

	inbound map[string][]depgraph.Dependency
}

// NewRuleContext bundles one run's facts. A nil matcher matches nothing.
func NewRuleContext(tools []*contract.ToolSpec, idx *index.Indexes, deps []depgraph.Dependency, matcher semantic.Matcher) *RuleContext {
	if idx == nil {
		idx = index.Build(tools)
	}
	if matcher == nil {
		matcher = noMatch{}
	}
	return &RuleContext{
		Tools:        tools,
		Indexes:      idx,
		Dependencies: deps,
		Matcher:      matcher,
		inbound:      depgraph.Inbound(deps),
	}
}

// InboundTo returns the edges feeding a tool's input field.
func (rc *RuleContext) InboundTo(tool, field string) []depgraph.Dependency {
	return rc.inbound[depgraph.FieldKey(tool, field)]
}

// IsFed reports whether some other tool's output feeds the input.
func (rc *RuleContext) IsFed(tool, field string) bool {
	return len(rc.InboundTo(tool, field)) > 0
}

type noMatch struct{}

func (noMatch) IsConceptMatch([]float32, semantic.Concept, float64) bool { return false }
