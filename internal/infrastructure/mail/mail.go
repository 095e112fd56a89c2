// Package mail sends plain-text email over SMTP.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"finframe/internal/shared/config"
)

var tracer = otel.Tracer("finframe/mail")

var errHeaderInjection = errors.New("mail header contains a line break")

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP delivers through a relay with PLAIN auth when a username is set.
type SMTP struct {
	addr string
	auth smtp.Auth
	from string
	send sendFunc
	now  func() time.Time
}

func NewSMTP(cfg config.MailConfig) *SMTP {
	s := &SMTP{
		addr: net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		from: cfg.From,
		send: smtp.SendMail,
		now:  time.Now,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}
	return s
}

func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	ctx, span := tracer.Start(ctx, "mail send")
	defer span.End()
	span.SetAttributes(attribute.String("server.address", s.addr))

	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := compose(s.from, to, subject, body, s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := s.send(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "smtp failed")
		return fmt.Errorf("failed to send mail via %s: %w", s.addr, err)
	}
	return nil
}

// Log writes messages to the log. It stands in for SMTP in development.
type Log struct{}

func (Log) Send(ctx context.Context, to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("mail not sent: SMTP is not configured")
	return nil
}

// Sender is what New returns.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP sender, or Log when no host is configured.
func New(cfg config.MailConfig) Sender {
	if cfg.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST not set, emails will only be logged")
		return Log{}
	}
	return NewSMTP(cfg)
}

func compose(from, to, subject, body string, date time.Time) ([]byte, error) {
	for _, h := range []string{from, to, subject} {
		if strings.ContainsAny(h, "\r\n") {
			return nil, errHeaderInjection
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes(), nil
}
