package limit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/notification"
	"finframe/internal/domain/transaction"
	"finframe/internal/shared/messages"
	"finframe/internal/shared/money"
)

// Notifier delivers a message to one user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, msg notification.Message) error
}

// Checker warns a user when an expense pushes one of their limits over.
// It plugs into transaction.Service as a Hooks implementation.
type Checker struct {
	transaction.NoopHooks
	limits   *Service
	notifier Notifier
	format   money.Formatter
	texts    *messages.Messages
}

// NewChecker creates a limit checker. notifier may be nil, in which case
// exceeded limits are only logged.
func NewChecker(limits *Service, notifier Notifier, format money.Formatter) *Checker {
	return &Checker{limits: limits, notifier: notifier, format: format, texts: messages.Default()}
}

// SetMessages replaces the built-in notification texts.
func (c *Checker) SetMessages(m *messages.Messages) {
	c.texts = m
}

func (c *Checker) CheckSpendingLimits(ctx context.Context, tx *transaction.Transaction) error {
	statuses, err := c.limits.ForCategory(ctx, tx.UserID, tx.CategoryID)
	if err != nil {
		return err
	}

	for _, st := range statuses {
		if !st.Exceeded {
			continue
		}

		log.Warn().
			Int64("user_id", tx.UserID).
			Int64("limit_id", st.ID).
			Str("spent", st.Spent.String()).
			Str("limit", st.Amount.String()).
			Msg("spending limit exceeded")

		if c.notifier == nil {
			continue
		}
		title, body := c.texts.LimitExceeded.Render(map[string]string{
			"spent":    c.format.Format(st.Spent),
			"period":   string(st.Period),
			"limit":    c.format.Format(st.Amount),
			"category": categoryLabel(st, tx),
		})
		msg := notification.Message{
			Title:    title,
			Body:     body,
			Category: notification.CategoryBudgets,
			Data: map[string]string{
				"limit_id":    fmt.Sprint(st.ID),
				"category_id": fmt.Sprint(st.CategoryID),
			},
		}
		if err := c.notifier.Notify(ctx, tx.UserID, msg); err != nil {
			log.Error().Err(err).Int64("limit_id", st.ID).Msg("failed to send limit notification")
		}
	}
	return nil
}

func categoryLabel(st Status, tx *transaction.Transaction) string {
	if st.CategoryName != "" {
		return st.CategoryName
	}
	if tx.CategoryName != "" {
		return tx.CategoryName
	}
	return "this category"
}
