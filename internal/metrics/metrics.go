package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the quiz collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	intents         *prometheus.CounterVec
	reveals         *prometheus.CounterVec
	roundsStarted   *prometheus.CounterVec
	bankLoads       *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_intents_total",
				Help: "Presenter intents by name and outcome",
			},
			[]string{"intent", "outcome"},
		),
		reveals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_reveals_total",
				Help: "Board reveals by correctness",
			},
			[]string{"correct"},
		),
		roundsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_rounds_started_total",
				Help: "Rounds entered by kind",
			},
			[]string{"kind"},
		),
		bankLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_bank_loads_total",
				Help: "Question bank loads by outcome",
			},
			[]string{"outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiz_command_duration_seconds",
				Help:    "Duration of websocket commands",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"command"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quiz_active_sessions",
			Help: "Presenter sessions currently attached",
		}),
	}
	reg.MustRegister(m.intents, m.reveals, m.roundsStarted, m.bankLoads, m.commandDuration, m.activeSessions)
	reg.MustRegister(collectors.NewGoCollector())
	return m
}

func outcome(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}

func (m *Metrics) Intent(name string, err error) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(name, outcome(err)).Inc()
}

func (m *Metrics) Reveal(correct bool) {
	if m == nil {
		return
	}
	label := "false"
	if correct {
		label = "true"
	}
	m.reveals.WithLabelValues(label).Inc()
}

func (m *Metrics) RoundStarted(kind string) {
	if m == nil {
		return
	}
	m.roundsStarted.WithLabelValues(kind).Inc()
}

func (m *Metrics) BankLoad(err error) {
	if m == nil {
		return
	}
	m.bankLoads.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) Command(name string, started time.Time) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}

func (m *Metrics) SessionAttached() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionDetached() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
