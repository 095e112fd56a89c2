package commands

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"compound", []string{"calc", "compound", "1000", "0.05", "10"}, "1.628,89 ₺"},
		{"loan zero rate", []string{"calc", "loan", "1200", "0", "12"}, "100,00 ₺"},
		{"vat add", []string{"vat", "add", "100"}, "gross 118,00 ₺"},
		{"vat extract", []string{"vat", "extract", "118"}, "net   100,00 ₺"},
		{"vat custom rate", []string{"vat", "add", "100", "--rate", "8"}, "gross 108,00 ₺"},
		{"money format", []string{"money", "format", "1234.5"}, "1.234,50 ₺"},
		{"money format prefix", []string{"money", "format", "1234.5", "--symbol", "$", "--prefix"}, "$1.234,50"},
		{"money parse", []string{"money", "parse", "1.234,56 ₺"}, "1234.56"},
		{"money parse dot", []string{"money", "parse", "$1,234.56", "--dot"}, "1234.56"},
		{"dates month", []string{"dates", "month", "2024-02"}, "01-02-2024 29-02-2024"},
		{"dates range", []string{"dates", "range", "yearly", "2024-06-15"}, "01-01-2024 31-12-2024"},
		{"validate password", []string{"validate", "password", "Kahve#2024x"}, "valid"},
		{"validate currency", []string{"validate", "currency", "1.234,56 ₺"}, "valid"},
		{"validate receipt", []string{"validate", "receipt", "market-2024.PDF"}, "valid"},
		{"money parse strict", []string{"money", "parse", "1.234,56 ₺", "--strict"}, "1234.56"},
		{"db print schema", []string{"db", "migrate", "--print"}, "CREATE TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("finctl %s: %v\n%s", strings.Join(tt.args, " "), err, out)
			}
			if !strings.Contains(out, tt.expected) {
				t.Errorf("output = %q, want it to contain %q", out, tt.expected)
			}
		})
	}
}

func TestCommands_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad principal", []string{"calc", "compound", "lots", "0.05", "10"}},
		{"bad month", []string{"dates", "month", "February"}},
		{"bad week", []string{"dates", "week", "2024", "60"}},
		{"unknown period", []string{"dates", "range", "hourly"}},
		{"weak password", []string{"validate", "password", "abc"}},
		{"bad tckn", []string{"validate", "tckn", "12345678901"}},
		{"negative currency", []string{"validate", "currency", "-5,00"}},
		{"receipt extension", []string{"validate", "receipt", "invoice.exe"}},
		{"strict parse garbage", []string{"money", "parse", "12a", "--strict"}},
		{"strict with dot", []string{"money", "parse", "1.5", "--strict", "--dot"}},
		{"missing args", []string{"calc", "loan", "1000"}},
		{"zero convert", []string{"rates", "convert", "0", "USD", "TRY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("finctl %s: expected error", strings.Join(tt.args, " "))
			}
		})
	}
}
