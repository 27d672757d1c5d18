package engine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metricsEngine struct {
	once sync.Once

	ruleFailures *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec
}

var engMetrics metricsEngine

func (m *metricsEngine) init() {
	m.once.Do(func() {
		m.ruleFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tool_audit_rule_failures_total",
			Help: "Rules that returned an error or panicked",
		}, []string{"code"})
		m.diagnostics = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tool_audit_diagnostics_total",
			Help: "Diagnostics emitted, by code and severity",
		}, []string{"code", "severity"})

		prometheus.MustRegister(m.ruleFailures, m.diagnostics)
	})
}

func recordRuleFailure(code string) {
	engMetrics.init()
	engMetrics.ruleFailures.WithLabelValues(code).Inc()
}

func recordDiagnostics(diags []Diagnostic) {
	engMetrics.init()
	for _, d := range diags {
		engMetrics.diagnostics.WithLabelValues(d.Code, string(d.Severity)).Inc()
	}
}
