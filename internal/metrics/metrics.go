// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdfmail"

// Metrics groups the service counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Artifacts counts ArtifactMailer runs by outcome
	// (sent, directory_unavailable, render_failure, send_failure, schedule_failure).
	Artifacts *prometheus.CounterVec
	// Disposals counts processed disposal records by outcome (deleted, invalid, failed).
	Disposals *prometheus.CounterVec
	// Swept counts files removed by the stale sweeper.
	Swept prometheus.Counter
	// MailSent and MailFailed count SMTP deliveries by host.
	MailSent   *prometheus.CounterVec
	MailFailed *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Total number of artifact mail runs by outcome",
		}, []string{"outcome"}),
		Disposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disposals_total",
			Help:      "Total number of processed disposal records by outcome",
		}, []string{"outcome"}),
		Swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_files_total",
			Help:      "Total number of stale artifacts removed by the sweeper",
		}),
		MailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_send_success_total",
			Help:      "Total number of successful SMTP deliveries",
		}, []string{"host"}),
		MailFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_send_failure_total",
			Help:      "Total number of failed SMTP deliveries",
		}, []string{"host"}),
	}

	m.registry.MustRegister(
		m.Artifacts,
		m.Disposals,
		m.Swept,
		m.MailSent,
		m.MailFailed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
