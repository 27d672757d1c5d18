package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Engine runs every registered rule, in registration order, against one
// rule context.
type Engine struct {
	rules  []Rule
	logger *zap.Logger
}

// NewEngine creates an engine with the given rules.
func NewEngine(rules []Rule, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rules:  rules,
		logger: logger,
	}
}

// Rules returns the registered rules in run order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Run executes rules sequentially and returns their diagnostics in rule
// order, then tool order. A rule that errors or panics is logged and
// contributes nothing; the remaining rules still run.
func (e *Engine) Run(rc *RuleContext) ([]Diagnostic, time.Duration) {
	start := time.Now()

	toolPos := make(map[string]int, len(rc.Tools))
	for i, t := range rc.Tools {
		toolPos[strings.ToLower(t.Name)] = i
	}
	position := func(d Diagnostic) int {
		if d.Tool == "" {
			return -1
		}
		if p, ok := toolPos[strings.ToLower(d.Tool)]; ok {
			return p
		}
		return len(rc.Tools)
	}

	var out []Diagnostic
	for _, r := range e.rules {
		diags, err := e.check(r, rc)
		if err != nil {
			e.logger.Warn("rule error",
				zap.String("rule", r.Code()),
				zap.String("name", r.Name()),
				zap.Error(err),
			)
			recordRuleFailure(r.Code())
			continue
		}
		for i := range diags {
			if diags[i].Code == "" {
				diags[i].Code = r.Code()
			}
		}
		sort.SliceStable(diags, func(i, j int) bool {
			return position(diags[i]) < position(diags[j])
		})
		out = append(out, diags...)
	}

	recordDiagnostics(out)
	return out, time.Since(start)
}

func (e *Engine) check(r Rule, rc *RuleContext) (diags []Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			diags, err = nil, fmt.Errorf("rule %s panicked: %v", r.Code(), p)
		}
	}()
	return r.Check(rc)
}
