// Package metrics exposes prometheus collectors for the HTTP API and the
// mapping/audit workflow.
package metrics

import (
	"errors"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts requests by route template and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuttle_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	// MappingMutationsTotal counts create/update/delete attempts per mapping type.
	MappingMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_mapping_mutations_total",
			Help: "Mapping create/update/delete attempts",
		},
		[]string{"type", "op", "result"},
	)

	AuditAppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_audit_appends_total",
			Help: "Audit log append attempts",
		},
		[]string{"type", "action", "result"},
	)

	AuditPurgedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_audit_purged_total",
			Help: "Audit log entries deleted by purge",
		},
		[]string{"type", "mode"},
	)

	BookCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_book_cache_total",
			Help: "Book lookup cache hits and misses",
		},
		[]string{"result"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuttle_login_attempts_total",
			Help: "Admin login attempts",
		},
		[]string{"result"},
	)
)

// Result turns an operation error into a low-cardinality label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, apperr.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, apperr.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
