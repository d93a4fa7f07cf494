package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estatedesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estatedesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	VerificationChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estatedesk", Name: "verification_checks_total", Help: "Verify-by-details outcomes by result status."},
		[]string{"status"},
	)
	DocumentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estatedesk", Name: "document_verifications_total", Help: "Document verification decisions by status."},
		[]string{"status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(VerificationChecks)
	reg.MustRegister(DocumentVerifications)
}
