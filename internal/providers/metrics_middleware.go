package providers

import (
	"net/http"
	"time"

	"ndexplorer/internal/structures"
)

// UnmatchedEndpoint labels requests for paths no route is registered for.
const UnmatchedEndpoint = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware labels each proxy call with its registered route, so
// arbitrary paths cannot add series. Upstream failures (5xx) are logged at
// warn level.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = UnmatchedEndpoint
		}
		metrics.IncRequestsTotal(endpoint, rec.status)
		metrics.ObserveRequestDuration(endpoint, elapsed)

		logType := GetLogTypeByPath(r.URL.Path)
		if rec.status >= http.StatusInternalServerError {
			logger.Warnf(logType, "%s %s answered %d after %s", r.Method, r.URL.RequestURI(), rec.status, elapsed)
			return
		}
		logger.Debugf(logType, "%s %s -> %d, %d bytes in %s", r.Method, r.URL.RequestURI(), rec.status, rec.bytes, elapsed)
	})
}
