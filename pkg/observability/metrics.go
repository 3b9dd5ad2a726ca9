package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Audit trail metrics
	AuditEntriesTotal        *prometheus.CounterVec
	AuditQueriesTotal        prometheus.Counter
	AuditQueryCacheHitsTotal prometheus.Counter
	AuditQueryDuration       prometheus.Histogram
	AuditExportsTotal        *prometheus.CounterVec
	AuditResetAttemptsTotal  *prometheus.CounterVec
	AuditEntriesStored       prometheus.Gauge

	// Business metrics
	SlotOperationsTotal    *prometheus.CounterVec
	BookingOperationsTotal *prometheus.CounterVec
	SlotsTotal             prometheus.Gauge
	BookingsTotal          prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		AuditEntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartslot_audit_entries_total",
				Help: "Total number of audit entries appended",
			},
			[]string{"action", "entity_type"},
		),
		AuditQueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "smartslot_audit_queries_total",
				Help: "Total number of audit log queries",
			},
		),
		AuditQueryCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "smartslot_audit_query_cache_hits_total",
				Help: "Total number of audit queries served from the result cache",
			},
		),
		AuditQueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartslot_audit_query_duration_seconds",
				Help:    "Audit query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		AuditExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartslot_audit_exports_total",
				Help: "Total number of audit log exports",
			},
			[]string{"format"},
		),
		AuditResetAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartslot_audit_reset_attempts_total",
				Help: "Total number of audit log reset attempts",
			},
			[]string{"outcome"},
		),
		AuditEntriesStored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartslot_audit_entries_stored",
				Help: "Current number of audit entries held in the store",
			},
		),
		SlotOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartslot_slot_operations_total",
				Help: "Total number of slot mutations",
			},
			[]string{"operation"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartslot_booking_operations_total",
				Help: "Total number of booking mutations",
			},
			[]string{"operation"},
		),
		SlotsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartslot_slots_total",
				Help: "Current number of slots",
			},
		),
		BookingsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartslot_bookings_total",
				Help: "Current number of bookings",
			},
		),
	}

	registry.MustRegister(
		m.AuditEntriesTotal,
		m.AuditQueriesTotal,
		m.AuditQueryCacheHitsTotal,
		m.AuditQueryDuration,
		m.AuditExportsTotal,
		m.AuditResetAttemptsTotal,
		m.AuditEntriesStored,
		m.SlotOperationsTotal,
		m.BookingOperationsTotal,
		m.SlotsTotal,
		m.BookingsTotal,
	)

	return m
}

// NewTestMetrics creates metrics backed by a throwaway registry, for tests
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
