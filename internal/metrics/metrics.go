package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// Metrics holds the filter counters on a dedicated registry.
type Metrics struct {
	reg         *prometheus.Registry
	verdicts    *prometheus.CounterVec
	changes     *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

func New(reg *prometheus.Registry) *Metrics {
	verdicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubefilter_verdicts_total",
		Help: "Content verdicts by matched rule and outcome",
	}, []string{"rule", "allowed"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubefilter_config_changes_total",
		Help: "Persisted filter configuration changes by action",
	}, []string{"action"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubefilter_store_errors_total",
		Help: "Configuration store failures by operation",
	}, []string{"op"})
	reg.MustRegister(verdicts, changes, storeErrors)

	return &Metrics{reg: reg, verdicts: verdicts, changes: changes, storeErrors: storeErrors}
}

// ObserveVerdict counts one evaluation. Verdicts without a matched rule are
// labelled "none". Safe on a nil receiver.
func (m *Metrics) ObserveVerdict(v models.FilterVerdict) {
	if m == nil {
		return
	}
	rule := string(v.MatchedRule)
	if rule == "" {
		rule = "none"
	}
	allowed := "false"
	if v.Allowed {
		allowed = "true"
	}
	m.verdicts.WithLabelValues(rule, allowed).Inc()
}

func (m *Metrics) ObserveChange(action string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
