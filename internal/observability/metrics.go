// Package observability exposes Prometheus instrumentation for the record
// store and the report sink.
//
// The tool never opens a port, so collectors live on a private registry
// that can be written to a node-exporter textfile on shutdown
// (WriteTextfile). All methods are nil-safe: a nil *Metrics records nothing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons used as the "reason" label of create failures.
const (
	ReasonInvalidInput = "invalid_input"
	ReasonUniqueness   = "uniqueness"
	ReasonStorage      = "storage"
)

// Metrics groups the collectors used by the application.
type Metrics struct {
	Registry *prometheus.Registry

	clientsCreated   prometheus.Counter
	createFailures   *prometheus.CounterVec
	clientsDeleted   prometheus.Counter
	reportsGenerated prometheus.Counter
	reportPages      prometheus.Histogram
}

// NewMetrics builds the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		clientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_clients_created_total",
			Help: "Total number of client records created.",
		}),
		createFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadastro_client_create_failures_total",
				Help: "Total number of rejected client creations by reason.",
			},
			[]string{"reason"},
		),
		clientsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_clients_deleted_total",
			Help: "Total number of client records deleted.",
		}),
		reportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_reports_generated_total",
			Help: "Total number of PDF reports written.",
		}),
		reportPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cadastro_report_pages",
			Help:    "Number of pages per generated report.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
	m.Registry.MustRegister(
		m.clientsCreated,
		m.createFailures,
		m.clientsDeleted,
		m.reportsGenerated,
		m.reportPages,
	)
	return m
}

// ClientCreated counts a successful creation.
func (m *Metrics) ClientCreated() {
	if m == nil {
		return
	}
	m.clientsCreated.Inc()
}

// CreateFailed counts a rejected creation under reason.
func (m *Metrics) CreateFailed(reason string) {
	if m == nil {
		return
	}
	m.createFailures.WithLabelValues(reason).Inc()
}

// ClientDeleted counts a deletion that removed a row.
func (m *Metrics) ClientDeleted() {
	if m == nil {
		return
	}
	m.clientsDeleted.Inc()
}

// ReportGenerated counts a written report and observes its page count.
func (m *Metrics) ReportGenerated(pages int) {
	if m == nil {
		return
	}
	m.reportsGenerated.Inc()
	m.reportPages.Observe(float64(pages))
}

// WriteTextfile writes the registry in the Prometheus text format to path.
// An empty path or a nil receiver is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
