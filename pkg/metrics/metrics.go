package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaming_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streaming_catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streaming_catalog_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Media Metrics
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaming_catalog_media_uploads_total",
			Help: "Media uploads by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: image|video, outcome: success|error
	)

	MediaUploadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaming_catalog_media_upload_bytes_total",
			Help: "Bytes written to media storage",
		},
		[]string{"kind"},
	)

	// Auth Metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaming_catalog_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success|invalid|locked
	)

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaming_catalog_upstream_requests_total",
			Help: "Requests made to the metadata provider",
		},
		[]string{"endpoint", "outcome"},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordMediaUpload(kind string, bytes int64, err error) {
	if err != nil {
		MediaUploadsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	MediaUploadsTotal.WithLabelValues(kind, "success").Inc()
	if bytes > 0 {
		MediaUploadBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

func RecordLoginAttempt(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordUpstreamRequest(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
