// Package metrics holds the domain collectors of the document engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	uploads       *prometheus.CounterVec
	verifications *prometheus.CounterVec
	conflicts     prometheus.Counter
	staleReads    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_document_uploads_total",
				Help: "Documents uploaded, by document type.",
			},
			[]string{"document_type"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_document_verifications_total",
				Help: "Admin review decisions applied, by outcome.",
			},
			[]string{"outcome"},
		),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compliance_document_conflicts_total",
			Help: "Mutations refused because the target record was no longer current.",
		}),
		staleReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_stale_reads_total",
				Help: "Reads served from a fallback tier instead of the database, by source.",
			},
			[]string{"source"},
		),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.verifications, m.conflicts, m.staleReads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Upload(typeKey string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(typeKey).Inc()
}

func (m *Metrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Conflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// StaleRead counts a fallback read; source is "snapshot" or "builtin".
func (m *Metrics) StaleRead(source string) {
	if m == nil {
		return
	}
	m.staleReads.WithLabelValues(source).Inc()
}
