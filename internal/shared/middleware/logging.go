package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logging writes one line per request. Client errors log at warn, server
// errors at error, and health checks only at debug.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)

		log.WithLevel(requestLevel(r, rec.Status())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route(r)).
			Int("status", rec.Status()).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Str("request_id", RequestIDFrom(r.Context())).
			Msg("http request")
	})
}

func requestLevel(r *http.Request, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	case r.URL.Path == "/health":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
