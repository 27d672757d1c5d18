package analyser

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine"
)

const (
	stageFetch     = "fetch"
	stageNormalize = "normalize"
	stageIndex     = "index"
	stageInfer     = "infer"
	stageRules     = "rules"
)

type metricsAnalyser struct {
	once sync.Once

	runs           *prometheus.CounterVec
	providerErrors prometheus.Counter
	stageDuration  *prometheus.HistogramVec
}

var anMetrics metricsAnalyser

func (m *metricsAnalyser) init() {
	m.once.Do(func() {
		m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tool_audit_runs_total",
			Help: "Completed analysis runs, by verdict",
		}, []string{"verdict"})
		m.providerErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tool_audit_provider_errors_total",
			Help: "Runs aborted because the tool provider failed",
		})
		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tool_audit_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"stage"})

		prometheus.MustRegister(m.runs, m.providerErrors, m.stageDuration)
	})
}

func recordRun(v engine.Verdict) {
	anMetrics.init()
	anMetrics.runs.WithLabelValues(string(v)).Inc()
}

func recordProviderError() {
	anMetrics.init()
	anMetrics.providerErrors.Inc()
}

func observeStage(stage string, d time.Duration) {
	anMetrics.init()
	anMetrics.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
