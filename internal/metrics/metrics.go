package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	validationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netbox_acls_validation_failures_total",
		Help: "Total number of rejected submissions by validation failure kind",
	}, []string{"kind"})
	objectsWrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netbox_acls_objects_written_total",
		Help: "Total number of access lists and rules written, by object and operation",
	}, []string{"object", "op"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(validationFailuresTotal, objectsWrittenTotal)
}

// IncValidationFailure counts a rejected submission of the given kind.
func IncValidationFailure(kind string) { validationFailuresTotal.WithLabelValues(kind).Inc() }

// IncObjectWritten counts a create, update or delete of object.
func IncObjectWritten(object, op string) { objectsWrittenTotal.WithLabelValues(object, op).Inc() }
