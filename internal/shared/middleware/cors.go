package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{
		"Authorization", "Content-Type", "X-Requested-With", requestIDHeader,
	}, ", ")
	corsMaxAge = strconv.Itoa(int(time.Hour.Seconds()))
)

// CORS answers preflights and sets the Access-Control headers. With no
// allowed hosts any origin may call without credentials. Otherwise allowed
// origins are echoed back with credentials and the rest get a 403.
func CORS(allowed Hosts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")

			if len(allowed) == 0 {
				h.Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				if !allowed.AllowOrigin(origin) {
					http.Error(w, "Origin not allowed", http.StatusForbidden)
					return
				}
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}

			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
