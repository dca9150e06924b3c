// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	TradesSimulated *prometheus.CounterVec

	// Attack metrics
	AttackAttempts    prometheus.Counter
	AttacksSuccessful prometheus.Counter
	MEVExtracted      prometheus.Counter
	VictimLosses      prometheus.Counter

	// Commitment metrics
	CommitmentsCreated  prometheus.Counter
	CommitmentsRevealed prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "amm_mev_lab"
	}

	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		TradesSimulated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades simulated by scenario",
		}, []string{"scenario"}),

		AttackAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attack",
			Name:      "attempts_total",
			Help:      "Total number of sandwich attacks executed",
		}),
		AttacksSuccessful: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attack",
			Name:      "successful_total",
			Help:      "Total number of profitable sandwich attacks",
		}),
		MEVExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attack",
			Name:      "mev_extracted_units_total",
			Help:      "Total MEV extracted in base token units",
		}),
		VictimLosses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attack",
			Name:      "victim_losses_units_total",
			Help:      "Total victim losses in output token units",
		}),

		CommitmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commitment",
			Name:      "created_total",
			Help:      "Total number of commitments created",
		}),
		CommitmentsRevealed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commitment",
			Name:      "revealed_total",
			Help:      "Total number of commitments revealed",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRun records a finished simulation run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordTrade increments the simulated trade counter for a scenario.
func RecordTrade(scenario string) {
	DefaultMetrics.TradesSimulated.WithLabelValues(scenario).Inc()
}

// RecordAttack records one executed sandwich attack.
func RecordAttack(success bool, profit int64, victimLoss uint64) {
	DefaultMetrics.AttackAttempts.Inc()
	if success {
		DefaultMetrics.AttacksSuccessful.Inc()
	}
	if profit > 0 {
		DefaultMetrics.MEVExtracted.Add(float64(profit))
	}
	DefaultMetrics.VictimLosses.Add(float64(victimLoss))
}

// RecordCommitment increments the commitment counters.
func RecordCommitment(revealed bool) {
	DefaultMetrics.CommitmentsCreated.Inc()
	if revealed {
		DefaultMetrics.CommitmentsRevealed.Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
