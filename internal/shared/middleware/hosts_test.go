package middleware

import "testing"

func TestHosts_Allow(t *testing.T) {
	tests := []struct {
		name  string
		hosts Hosts
		host  string
		want  bool
	}{
		{"empty list allows all", nil, "anything.test", true},
		{"exact", Hosts{"api.finframe.test:8443"}, "api.finframe.test:8443", true},
		{"bare entry any port", Hosts{"api.finframe.test"}, "api.finframe.test:3000", true},
		{"port entry, portless host", Hosts{"api.finframe.test:8443"}, "api.finframe.test", true},
		{"port mismatch", Hosts{"api.finframe.test:8443"}, "api.finframe.test:80", false},
		{"case and space", Hosts{"  API.FinFrame.test "}, "api.finframe.TEST", true},
		{"subdomain is different", Hosts{"finframe.test"}, "api.finframe.test", false},
		{"suffix trick", Hosts{"finframe.test"}, "evilfinframe.test", false},
		{"ipv6 with port", Hosts{"[::1]"}, "[::1]:8080", true},
		{"ipv6 bare", Hosts{"::1"}, "[::1]", true},
		{"ipv6 mismatch", Hosts{"[::1]"}, "[::2]:8080", false},
		{"blank entries skipped", Hosts{"", " "}, "", false},
		{"second entry", Hosts{"a.test", "b.test"}, "b.test", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hosts.Allow(tt.host); got != tt.want {
				t.Errorf("Hosts%v.Allow(%q) = %v, want %v", []string(tt.hosts), tt.host, got, tt.want)
			}
		})
	}
}

func TestHosts_AllowOrigin(t *testing.T) {
	hosts := Hosts{"app.finframe.test", "localhost:5173"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.finframe.test", true},
		{"http://localhost:5173", true},
		{"http://localhost:3000", false},
		{"https://evil.test", false},
		{"://broken", false},
		{"null", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := hosts.AllowOrigin(tt.origin); got != tt.want {
				t.Errorf("AllowOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
