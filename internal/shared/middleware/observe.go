package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	httpMeter       = otel.Meter("finframe/http")
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
)

func init() {
	requestDuration, _ = httpMeter.Float64Histogram("finframe.http.duration",
		metric.WithDescription("Time spent serving a route"),
		metric.WithUnit("s"),
	)
	requestCount, _ = httpMeter.Int64Counter("finframe.http.requests",
		metric.WithDescription("Requests served, by route and status class"),
	)
}

// Trace starts a server span per request through otelhttp. Health checks
// are not traced. Metrics renames the span once the route is known.
func Trace(serviceName string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}

// Metrics records request count and duration per route pattern and names
// the current span after it. It must wrap the ServeMux directly so the
// pattern is set on the request it sees.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)

		span := trace.SpanFromContext(r.Context())
		span.SetName(r.Method + " " + route(r))
		span.SetAttributes(attribute.String("http.route", route(r)))
		if rec.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.Status()))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route(r)),
			attribute.String("http.status_class", statusClass(rec.Status())),
		)
		requestDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
		requestCount.Add(r.Context(), 1, attrs)
	})
}

func statusClass(status int) string {
	return string(rune('0'+status/100)) + "xx"
}
