package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPMetricsMiddleware struct {
	next http.Handler
}

func WrapHandler(next http.Handler) http.Handler {
	return &HTTPMetricsMiddleware{next: next}
}

func (m *HTTPMetricsMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	handlerName := extractHandlerName(r.URL.Path)

	m.next.ServeHTTP(wrapped, r)

	duration := time.Since(start).Seconds()
	statusCode := strconv.Itoa(wrapped.statusCode)

	HTTPRequestDuration.WithLabelValues(handlerName, r.Method, statusCode).Observe(duration)
	HTTPRequestsTotal.WithLabelValues(handlerName, r.Method, statusCode).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// extractHandlerName buckets paths so per-id routes share one label and
// metric cardinality stays bounded.
func extractHandlerName(path string) string {
	path = strings.TrimPrefix(path, "/")

	switch {
	case strings.HasPrefix(path, "purchases/history"):
		return "purchase_history"
	case strings.HasPrefix(path, "purchases/check"):
		return "purchase_check"
	case strings.HasPrefix(path, "purchases/user"):
		return "purchase_admin_history"
	case strings.HasPrefix(path, "purchases"):
		return "purchases"
	case strings.HasPrefix(path, "flash-sales/status"):
		return "flash_sale_status"
	case strings.HasPrefix(path, "flash-sales"):
		return "flash_sales"
	case strings.HasPrefix(path, "products"):
		return "products"
	case strings.HasPrefix(path, "users"):
		return "users"
	case strings.HasPrefix(path, "auth"):
		return "auth"
	case strings.HasPrefix(path, "health"):
		return "health"
	case strings.HasPrefix(path, "metrics"):
		return "metrics"
	default:
		return "other"
	}
}
