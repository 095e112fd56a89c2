package listener

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
)

type recordingClearer struct {
	prefixes []string
}

func (r *recordingClearer) Clear(prefix string) {
	r.prefixes = append(r.prefixes, prefix)
}

type mockExecer struct {
	query string
	args  []any
	err   error
}

func (m *mockExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	m.query = query
	m.args = args
	return nil, m.err
}

func TestHandle_ClearsPrefix(t *testing.T) {
	c := &recordingClearer{}
	l := NewCacheListener("", c)

	l.handle(&pq.Notification{Channel: Channel, Extra: "exchangerate."})
	l.handle(&pq.Notification{Channel: Channel})

	if len(c.prefixes) != 2 || c.prefixes[0] != "exchangerate." || c.prefixes[1] != "" {
		t.Errorf("unexpected clears: %v", c.prefixes)
	}
}

func TestPublish(t *testing.T) {
	m := &mockExecer{}
	if err := Publish(context.Background(), m, "exchangerate."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.args) != 2 || m.args[0] != Channel || m.args[1] != "exchangerate." {
		t.Errorf("unexpected args: %v", m.args)
	}
}

func TestPublish_Error(t *testing.T) {
	m := &mockExecer{err: errors.New("connection refused")}
	if err := Publish(context.Background(), m, ""); err == nil {
		t.Error("expected error")
	}
}
