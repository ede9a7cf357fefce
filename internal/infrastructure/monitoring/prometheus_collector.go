package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcomes reported per processed message.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeDenied   = "denied"
	OutcomeNotFound = "not_found"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

type PrometheusCollector struct {
	commandsTotal      *prometheus.CounterVec
	commandDuration    *prometheus.HistogramVec
	groupsCreated      prometheus.Counter
	conferencesCreated prometheus.Counter
	storeBusyRetries   prometheus.Counter
	activeDialogs      prometheus.Gauge
}

// NewPrometheusCollector registers all collectors with reg. Passing a fresh
// prometheus.NewRegistry() in tests avoids duplicate-registration panics.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)

	return &PrometheusCollector{
		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confbot_commands_total",
			Help: "Total number of processed commands by outcome",
		}, []string{"command", "outcome"}),

		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "confbot_command_duration_seconds",
			Help:    "Command processing duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"command"}),

		groupsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "confbot_groups_created_total",
			Help: "Total number of groups created",
		}),

		conferencesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "confbot_conferences_created_total",
			Help: "Total number of conferences created",
		}),

		storeBusyRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "confbot_store_busy_retries_total",
			Help: "Total number of store operations retried after a busy rejection",
		}),

		activeDialogs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "confbot_dialog_sessions_active",
			Help: "Number of conference-creation dialogs in progress",
		}),
	}
}

func (p *PrometheusCollector) RecordCommand(command, outcome string, duration time.Duration) {
	p.commandsTotal.WithLabelValues(command, outcome).Inc()
	p.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordGroupCreated() {
	p.groupsCreated.Inc()
}

func (p *PrometheusCollector) RecordConferenceCreated() {
	p.conferencesCreated.Inc()
}

func (p *PrometheusCollector) RecordStoreBusyRetry() {
	p.storeBusyRetries.Inc()
}

func (p *PrometheusCollector) RecordDialogStarted() {
	p.activeDialogs.Inc()
}

func (p *PrometheusCollector) RecordDialogEnded() {
	p.activeDialogs.Dec()
}
