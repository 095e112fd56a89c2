package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// HSTSMaxAge enables Strict-Transport-Security when positive. Only set
	// it when the process terminates TLS itself.
	HSTSMaxAge time.Duration
	// SecureCookies forces Secure, HttpOnly and SameSite on every cookie
	// the handlers set.
	SecureCookies bool
}

// SecurityHeaders sets the response headers every API reply carries.
func SecurityHeaders(opts SecurityOptions) func(http.Handler) http.Handler {
	hsts := ""
	if opts.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(int(opts.HSTSMaxAge.Seconds())) + "; includeSubDomains"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if opts.SecureCookies {
				w = &cookieHardener{ResponseWriter: w}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cookieHardener rewrites Set-Cookie headers right before they are sent.
type cookieHardener struct {
	http.ResponseWriter
	done bool
}

func (c *cookieHardener) WriteHeader(status int) {
	if !c.done {
		c.done = true
		hardenCookies(c.Header())
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *cookieHardener) Write(b []byte) (int, error) {
	if !c.done {
		c.WriteHeader(http.StatusOK)
	}
	return c.ResponseWriter.Write(b)
}

func (c *cookieHardener) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

// hardenCookies adds Secure and HttpOnly to every cookie and SameSite=Strict
// to those that did not choose a mode. Lines that do not parse are kept.
func hardenCookies(h http.Header) {
	lines := h.Values("Set-Cookie")
	if len(lines) == 0 {
		return
	}

	h.Del("Set-Cookie")
	for _, line := range lines {
		cookie, err := http.ParseSetCookie(line)
		if err != nil {
			h.Add("Set-Cookie", line)
			continue
		}
		cookie.Secure = true
		cookie.HttpOnly = true
		if cookie.SameSite == 0 || cookie.SameSite == http.SameSiteDefaultMode {
			cookie.SameSite = http.SameSiteStrictMode
		}
		h.Add("Set-Cookie", cookie.String())
	}
}
