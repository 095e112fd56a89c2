package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLen = 256

var tracer = otel.Tracer("finframe/postgres")

var (
	stringLiteral  = regexp.MustCompile(`'(?:[^']|'')*'`)
	numericLiteral = regexp.MustCompile(`(^|[^\w$.])\d+(?:\.\d+)?\b`)
)

func startSpan(ctx context.Context, name, query string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("db.system", "postgresql")}
	if query != "" {
		attrs = append(attrs,
			attribute.String("db.operation", operation(query)),
			attribute.String("db.statement", statement(query)),
		)
	}
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

// endSpan closes span, marking it failed unless err is nil or an empty
// result.
func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// statement returns query on one line with literal values masked.
// Placeholders like $1 are kept.
func statement(query string) string {
	s := strings.Join(strings.Fields(query), " ")
	s = stringLiteral.ReplaceAllString(s, "'?'")
	s = numericLiteral.ReplaceAllString(s, "${1}?")
	if len(s) > maxStatementLen {
		s = s[:maxStatementLen] + "..."
	}
	return s
}

func operation(query string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	if i := strings.IndexAny(verb, "\n\t("); i >= 0 {
		verb = verb[:i]
	}
	return strings.ToUpper(verb)
}
