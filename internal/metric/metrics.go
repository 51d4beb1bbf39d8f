// Package metric registers the Prometheus instruments exposed on
// /metrics: order outcomes, OTP traffic, rate limiting, storage
// operations, the tracking cache and outbound notifications.
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Order workflow outcomes: created / rejected / conflict.
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "orders",
		Name:      "processed_total",
		Help:      "Order creation attempts by outcome",
	}, []string{"result"})

	// OTP issuance volume.
	OtpIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "otp",
		Name:      "issued_total",
		Help:      "One-time codes issued",
	})

	// OTP verification outcomes: ok / invalid / too_many_attempts.
	OtpVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "otp",
		Name:      "verify_total",
		Help:      "OTP verification attempts by outcome",
	}, []string{"result"})

	// Rejections per rate-limit scope (login / otp / order).
	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "ratelimit",
		Name:      "rejections_total",
		Help:      "Requests rejected by the fixed-window limiter",
	}, []string{"scope"})

	// Storage operation counts by outcome.
	DbOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "db",
		Name:      "operations_total",
		Help:      "Database operations by outcome",
	}, []string{"operation", "status"})

	// Storage operation latency.
	DbDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dokan",
		Subsystem: "db",
		Name:      "operation_duration_seconds",
		Help:      "Database operation latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// Entries currently held by the tracking cache.
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dokan",
		Subsystem: "cache",
		Name:      "items_count",
		Help:      "Orders currently cached for tracking lookups",
	})

	// Tracking cache effectiveness: hit / miss.
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Tracking cache lookups by result",
	}, []string{"result"})

	// Notification outbox traffic: enqueued / delivered / error per channel.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dokan",
		Subsystem: "notify",
		Name:      "messages_total",
		Help:      "Notification messages by channel and outcome",
	}, []string{"channel", "status"})

	RequestMetrics = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "dokan",
		Subsystem:  "http",
		Name:       "request",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
)

func ObserveRequest(t time.Duration, status int) {
	RequestMetrics.WithLabelValues(strconv.Itoa(status)).Observe(t.Seconds())
}

// ObserveDb records one storage operation with its latency.
func ObserveDb(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DbOperationsTotal.WithLabelValues(operation, status).Inc()
	DbDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
