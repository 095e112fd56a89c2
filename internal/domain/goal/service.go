package goal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"finframe/internal/domain/notification"
	"finframe/internal/domain/record"
	"finframe/internal/shared/messages"
	"finframe/internal/shared/money"
	"finframe/internal/shared/validate"
)

// Notifier delivers a message to one user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, msg notification.Message) error
}

type Service struct {
	saving   SavingRepository
	purchase PurchaseRepository
	notifier Notifier
	format   money.Formatter
	texts    *messages.Messages
	now      record.Clock
}

// NewService creates the goal service. notifier may be nil.
func NewService(saving SavingRepository, purchase PurchaseRepository, notifier Notifier, format money.Formatter) *Service {
	return &Service{
		saving:   saving,
		purchase: purchase,
		notifier: notifier,
		format:   format,
		texts:    messages.Default(),
		now:      record.Now,
	}
}

// SetMessages replaces the built-in notification texts.
func (s *Service) SetMessages(m *messages.Messages) {
	s.texts = m
}

func (s *Service) ListSaving(ctx context.Context, userID int64) ([]*SavingGoal, error) {
	return s.saving.ListSaving(ctx, userID)
}

// GetSaving loads a saving goal and verifies user ownership
func (s *Service) GetSaving(ctx context.Context, userID, id int64) (*SavingGoal, error) {
	g, err := s.saving.GetSaving(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return g, nil
}

func (s *Service) CreateSaving(ctx context.Context, userID int64, params SavingGoalParams) (*SavingGoal, error) {
	if err := params.Validate(s.now()); err != nil {
		return nil, err
	}
	return s.saving.CreateSaving(ctx, userID, params)
}

func (s *Service) UpdateSaving(ctx context.Context, userID, id int64, params SavingGoalParams) (*SavingGoal, error) {
	if err := params.Validate(s.now()); err != nil {
		return nil, err
	}
	if _, err := s.GetSaving(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.saving.UpdateSaving(ctx, id, params)
}

func (s *Service) DeleteSaving(ctx context.Context, userID, id int64) error {
	if _, err := s.GetSaving(ctx, userID, id); err != nil {
		return err
	}
	return s.saving.DeleteSaving(ctx, id)
}

// Deposit adds amount to a saving goal. A deposit that reaches the target
// sends a goals notification.
func (s *Service) Deposit(ctx context.Context, userID, id int64, amount decimal.Decimal) (*SavingGoal, error) {
	if !amount.IsPositive() {
		return nil, validate.Field("amount", "amount must be greater than zero")
	}
	if err := validate.Amount("amount", amount); err != nil {
		return nil, err
	}
	before, err := s.GetSaving(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	g, err := s.saving.AddToSaving(ctx, id, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add money to goal: %w", err)
	}

	if g.IsReached() && !before.IsReached() {
		title, body := s.texts.GoalReached.Render(map[string]string{
			"goal":   g.Name,
			"target": s.format.Format(g.TargetAmount),
		})
		s.notify(ctx, userID, title, body, map[string]string{"goal_id": fmt.Sprint(g.ID)})
	}
	return g, nil
}

func (s *Service) ListPurchase(ctx context.Context, userID int64) ([]*PurchaseGoal, error) {
	return s.purchase.ListPurchase(ctx, userID)
}

func (s *Service) CreatePurchase(ctx context.Context, userID int64, params PurchaseGoalParams) (*PurchaseGoal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	trigger := params.Trigger()
	params.TriggerPercentage = &trigger
	return s.purchase.CreatePurchase(ctx, userID, params)
}

func (s *Service) DeletePurchase(ctx context.Context, userID, id int64) error {
	g, err := s.purchase.GetPurchase(ctx, id)
	if err != nil {
		return err
	}
	if g.UserID != userID {
		return ErrForbidden
	}
	return s.purchase.DeletePurchase(ctx, id)
}

// CheckPurchaseGoals tells the user about every pending purchase goal the
// new total can afford, once per goal.
func (s *Service) CheckPurchaseGoals(ctx context.Context, userID int64, total decimal.Decimal) error {
	pending, err := s.purchase.ListPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list purchase goals: %w", err)
	}

	for _, g := range pending {
		if !g.CanPurchase(total) {
			continue
		}
		title, body := s.texts.PurchaseAffordable.Render(map[string]string{
			"goal":    g.Name,
			"price":   s.format.Format(g.Price),
			"trigger": g.TriggerPercentage.String(),
		})
		s.notify(ctx, userID, title, body, map[string]string{"purchase_goal_id": fmt.Sprint(g.ID)})

		if err := s.purchase.MarkNotified(ctx, g.ID); err != nil {
			return fmt.Errorf("failed to mark purchase goal %d notified: %w", g.ID, err)
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, userID int64, title, body string, data map[string]string) {
	if s.notifier == nil {
		log.Info().Int64("user_id", userID).Str("title", title).Msg("goal notification skipped, no notifier")
		return
	}
	msg := notification.Message{Title: title, Body: body, Category: notification.CategoryGoals, Data: data}
	if err := s.notifier.Notify(ctx, userID, msg); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to send goal notification")
	}
}
