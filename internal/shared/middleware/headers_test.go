package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	SecurityHeaders(SecurityOptions{})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("baseline headers missing: %v", rr.Header())
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must be off by default")
	}

	rr = httptest.NewRecorder()
	SecurityHeaders(SecurityOptions{HSTSMaxAge: 365 * 24 * time.Hour})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rr.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestSecurityHeaders_Cookies(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		contains []string
		absent   []string
	}{
		{
			name:     "bare cookie gains every flag",
			cookie:   "finframe_token=abc; Path=/",
			contains: []string{"finframe_token=abc", "Path=/", "Secure", "HttpOnly", "SameSite=Strict"},
		},
		{
			name:     "explicit Lax is kept",
			cookie:   "finframe_token=abc; Path=/; SameSite=Lax",
			contains: []string{"SameSite=Lax", "Secure", "HttpOnly"},
			absent:   []string{"SameSite=Strict"},
		},
		{
			name:     "Max-Age survives",
			cookie:   "finframe_token=; Path=/; Max-Age=0",
			contains: []string{"Max-Age=0", "Secure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("Set-Cookie", tt.cookie)
				w.WriteHeader(http.StatusNoContent)
			})
			rr := httptest.NewRecorder()
			SecurityHeaders(SecurityOptions{SecureCookies: true})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

			got := rr.Header().Get("Set-Cookie")
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Set-Cookie %q missing %q", got, want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(got, bad) {
					t.Errorf("Set-Cookie %q should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestSecurityHeaders_CookiesOnImplicitWrite(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "1"})
		w.Write([]byte("body"))
	})
	rr := httptest.NewRecorder()
	SecurityHeaders(SecurityOptions{SecureCookies: true})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("Set-Cookie"); !strings.Contains(got, "Secure") {
		t.Errorf("Set-Cookie = %q, want Secure", got)
	}
}
