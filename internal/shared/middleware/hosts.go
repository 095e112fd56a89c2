package middleware

import (
	"net"
	"net/url"
	"strings"
)

// Hosts is an allow-list of host names, each optionally with a port. An
// entry without a port matches that host on any port.
type Hosts []string

// Allow reports whether host ("name", "name:port" or a bracketed IPv6
// literal) is on the list. An empty list allows everything.
func (h Hosts) Allow(host string) bool {
	if len(h) == 0 {
		return true
	}

	host = normalizeHost(host)
	name, port := splitHost(host)
	for _, entry := range h {
		entryName, entryPort := splitHost(normalizeHost(entry))
		if entryName == "" || entryName != name {
			continue
		}
		// A port on either side is only compared when both carry one.
		if entryPort == "" || port == "" || entryPort == port {
			return true
		}
	}
	return false
}

// AllowOrigin checks the host part of an Origin header value.
func (h Hosts) AllowOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return h.Allow(u.Host)
}

func normalizeHost(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitHost separates an optional port and strips IPv6 brackets.
func splitHost(host string) (name, port string) {
	if n, p, err := net.SplitHostPort(host); err == nil {
		return n, p
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), ""
}
