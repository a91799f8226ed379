package middleware

import (
	"net/http"
	"time"

	"streaming-catalog/pkg/metrics"
)

// Metrics records request count and latency labelled by chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		metrics.RecordAPIRequest(r.Method, routePattern(r, "unmatched"), rw.statusCode, time.Since(start))
	})
}
