// Package firebase delivers notifications through Firebase Cloud Messaging.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"

	"finframe/internal/domain/notification"
)

// batchSize is the FCM multicast limit.
const batchSize = 500

var tracer = otel.Tracer("finframe/firebase")

// Deactivate is called for every token FCM no longer accepts.
type Deactivate func(ctx context.Context, token string) error

// multicaster is the part of messaging.Client the Client uses.
type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type Client struct {
	fcm        multicaster
	deactivate Deactivate
}

// Result counts per-token outcomes of one Push.
type Result struct {
	Sent    int
	Failed  int
	Dropped int
}

func NewClient(ctx context.Context, credentialsFile string, deactivate Deactivate) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &Client{fcm: fcm, deactivate: deactivate}, nil
}

// Push implements notification.Messenger.
func (c *Client) Push(ctx context.Context, tokens []string, msg notification.Message) error {
	_, err := c.Deliver(ctx, tokens, msg)
	return err
}

// Deliver sends msg to every token in batches and deactivates tokens FCM
// reports as stale. A request-level failure aborts the remaining batches.
func (c *Client) Deliver(ctx context.Context, tokens []string, msg notification.Message) (Result, error) {
	var res Result
	if len(tokens) == 0 {
		return res, nil
	}

	ctx, span := tracer.Start(ctx, "fcm.Deliver")
	defer span.End()
	span.SetAttributes(
		attribute.Int("fcm.tokens", len(tokens)),
		attribute.String("notification.category", msg.Category),
	)

	for start := 0; start < len(tokens); start += batchSize {
		batch := tokens[start:min(start+batchSize, len(tokens))]

		resp, err := c.fcm.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
			Data:         msg.Data,
		})
		if err != nil {
			span.RecordError(err)
			return res, fmt.Errorf("failed to send FCM batch: %w", err)
		}

		res.Sent += resp.SuccessCount
		for i, r := range resp.Responses {
			if r.Error == nil {
				continue
			}
			if stale(r.Error) {
				res.Dropped++
				c.drop(ctx, batch[i])
				continue
			}
			res.Failed++
			log.Error().Err(r.Error).Str("token", redact(batch[i])).Msg("fcm send failed")
		}
	}

	span.SetAttributes(
		attribute.Int("fcm.sent", res.Sent),
		attribute.Int("fcm.failed", res.Failed),
		attribute.Int("fcm.dropped", res.Dropped),
	)
	log.Debug().Int("sent", res.Sent).Int("failed", res.Failed).Int("dropped", res.Dropped).Msg("fcm delivery done")
	return res, nil
}

func (c *Client) drop(ctx context.Context, token string) {
	log.Warn().Str("token", redact(token)).Msg("fcm token rejected, deactivating")
	if c.deactivate == nil {
		return
	}
	if err := c.deactivate(ctx, token); err != nil {
		log.Error().Err(err).Str("token", redact(token)).Msg("failed to deactivate device")
	}
}

func stale(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

// redact keeps full device tokens out of logs.
func redact(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
