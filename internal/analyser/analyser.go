// Package analyser wires the static analysis pipeline: fetch, normalize, index,
// infer dependencies, run rules and aggregate a verdict.
package analyser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/depgraph"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
	"github.com/triage-ai/palisade/services/tool_audit/internal/engine/rules"
	"github.com/triage-ai/palisade/services/tool_audit/internal/index"
	"github.com/triage-ai/palisade/services/tool_audit/internal/provider"
	"github.com/triage-ai/palisade/services/tool_audit/internal/semantic"
)

// Result is the report of one analysis run.
type Result struct {
	Verdict             engine.Verdict        `json:"verdict"`
	Diagnostics         []engine.Diagnostic   `json:"diagnostics"`
	Errors              []engine.Diagnostic   `json:"errors"`
	Warnings            []engine.Diagnostic   `json:"warnings"`
	Dependencies        []depgraph.Dependency `json:"dependencies"`
	ToolCount           int                   `json:"tool_count"`
	NormalizationIssues []contract.Issue      `json:"normalization_issues"`
}

// Analyser runs the pipeline. It holds no per-run state and is safe for
// concurrent use.
type Analyser struct {
	logger     *zap.Logger
	matcher    *semantic.Table
	normalizer *contract.Normalizer
	engine     *engine.Engine
}

// Option configures an Analyser.
type Option func(*options)

type options struct {
	rules []engine.Rule
}

// WithRules replaces the default rule set.
func WithRules(r ...engine.Rule) Option {
	return func(o *options) { o.rules = r }
}

// New creates an Analyser with the default rules unless overridden.
func New(logger *zap.Logger, opts ...Option) *Analyser {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{rules: rules.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	matcher := semantic.InitializeConceptEmbeddings()
	return &Analyser{
		logger:     logger,
		matcher:    matcher,
		normalizer: contract.NewNormalizer(matcher.Embedder()),
		engine:     engine.NewEngine(o.rules, logger),
	}
}

// Rules returns the rules the analyser runs, in order.
func (a *Analyser) Rules() []engine.Rule {
	return a.engine.Rules()
}

// Analyse fetches the tool list from p and analyses it. Provider failures are
// returned as errors wrapping provider.ErrProvider; they never become diagnostics.
func (a *Analyser) Analyse(ctx context.Context, p provider.ToolProvider) (*Result, error) {
	start := time.Now()
	raw, err := p.ListTools(ctx)
	observeStage(stageFetch, time.Since(start))
	if err != nil {
		recordProviderError()
		if !errors.Is(err, provider.ErrProvider) {
			err = fmt.Errorf("%w: %s: %w", provider.ErrProvider, p.Name(), err)
		}
		a.logger.Warn("provider fetch failed",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	return a.AnalyseTools(raw), nil
}

// AnalyseTools runs the synchronous pipeline over an already-fetched tool list.
func (a *Analyser) AnalyseTools(raw []contract.RawTool) *Result {
	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID))
	start := time.Now()

	stage := time.Now()
	tools, issues := a.normalizer.Normalize(raw)
	observeStage(stageNormalize, time.Since(stage))
	for _, is := range issues {
		logger.Info("normalization issue",
			zap.String("kind", string(is.Kind)),
			zap.String("tool", is.Tool),
			zap.String("field", is.Field),
			zap.String("message", is.Message),
		)
	}

	stage = time.Now()
	idx := index.Build(tools)
	observeStage(stageIndex, time.Since(stage))

	stage = time.Now()
	deps := depgraph.Infer(tools, idx)
	observeStage(stageInfer, time.Since(stage))

	rc := engine.NewRuleContext(tools, idx, deps, a.matcher)
	diags, rulesElapsed := a.engine.Run(rc)
	observeStage(stageRules, rulesElapsed)

	agg := engine.Aggregate(diags)
	recordRun(agg.Verdict)

	if diags == nil {
		diags = []engine.Diagnostic{}
	}
	if deps == nil {
		deps = []depgraph.Dependency{}
	}
	if issues == nil {
		issues = []contract.Issue{}
	}

	logger.Info("analysis complete",
		zap.String("verdict", string(agg.Verdict)),
		zap.Int("tools", len(tools)),
		zap.Int("errors", len(agg.Errors)),
		zap.Int("warnings", len(agg.Warnings)),
		zap.Int("dependencies", len(deps)),
		zap.Duration("latency", time.Since(start)),
	)

	return &Result{
		Verdict:             agg.Verdict,
		Diagnostics:         diags,
		Errors:              agg.Errors,
		Warnings:            agg.Warnings,
		Dependencies:        deps,
		ToolCount:           len(tools),
		NormalizationIssues: issues,
	}
}
