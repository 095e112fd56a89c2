package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates the notification service. messenger may be nil, in
// which case notifications only land in the inbox.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice stores token for userID. A token seen before under another
// user moves to this one.
func (s *Service) RegisterDevice(ctx context.Context, userID int64, token, platform string) (*Device, error) {
	switch {
	case userID <= 0:
		return nil, ErrInvalidUser
	case token == "":
		return nil, ErrInvalidToken
	case !IsValidPlatform(platform):
		return nil, ErrInvalidPlatform
	}

	d, err := s.repo.SaveDevice(ctx, &Device{UserID: userID, Token: token, Platform: platform})
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return d, nil
}

func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	return s.repo.DeactivateDevice(ctx, token)
}

func (s *Service) Preferences(ctx context.Context, userID int64) (Preferences, error) {
	if userID <= 0 {
		return Preferences{}, ErrInvalidUser
	}
	muted, err := s.repo.MutedCategories(ctx, userID)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load notification preferences: %w", err)
	}
	return Preferences{UserID: userID, Muted: muted}, nil
}

// UpdatePreferences applies changes (category to enabled) and returns the
// resulting preferences. Unknown categories reject the whole update.
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, changes map[string]bool) (Preferences, error) {
	if userID <= 0 {
		return Preferences{}, ErrInvalidUser
	}
	for c := range changes {
		if !IsValidCategory(c) {
			return Preferences{}, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
	}
	for c, enabled := range changes {
		if err := s.repo.SetCategoryEnabled(ctx, userID, c, enabled); err != nil {
			return Preferences{}, fmt.Errorf("failed to update %s preference: %w", c, err)
		}
	}
	return s.Preferences(ctx, userID)
}

// Inbox returns one page of notifications, newest first, together with the
// unread count.
func (s *Service) Inbox(ctx context.Context, userID int64, page, size int) (*Inbox, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = defaultPageSize
	}

	items, total, err := s.repo.List(ctx, userID, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return &Inbox{Items: items, Page: page, Size: size, Total: total, Unread: unread}, nil
}

// MarkOpened treats ids that are not UUIDs as unknown.
func (s *Service) MarkOpened(ctx context.Context, userID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotificationNotFound
	}
	return s.repo.MarkOpened(ctx, userID, id)
}

// MarkAllOpened returns how many notifications changed.
func (s *Service) MarkAllOpened(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUser
	}
	return s.repo.MarkAllOpened(ctx, userID)
}

// Notify stores msg in the user's inbox and pushes it to their devices.
// Muted categories are dropped silently. Push failures are logged only:
// the inbox entry is what the apps sync from.
func (s *Service) Notify(ctx context.Context, userID int64, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return err
	}
	if !prefs.Enabled(msg.Category) {
		log.Debug().Int64("user_id", userID).Str("category", msg.Category).Msg("notification muted")
		return nil
	}

	msg = msg.withRoute()
	if _, err := s.repo.Store(ctx, userID, msg); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.messenger == nil {
		return nil
	}
	devices, err := s.repo.ActiveDevices(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load devices")
		return nil
	}
	if len(devices) == 0 {
		return nil
	}
	if err := s.messenger.Push(ctx, tokens(devices), msg); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to push notification")
	}
	return nil
}

// Broadcast pushes msg to every active device without storing it, and
// reports how many devices were targeted.
func (s *Service) Broadcast(ctx context.Context, msg Message) (int, error) {
	if err := msg.Validate(); err != nil {
		return 0, err
	}

	devices, err := s.repo.ActiveDevices(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load devices: %w", err)
	}
	if len(devices) == 0 || s.messenger == nil {
		log.Info().Int("devices", len(devices)).Msg("broadcast skipped")
		return 0, nil
	}

	if err := s.messenger.Push(ctx, tokens(devices), msg.withRoute()); err != nil {
		return 0, fmt.Errorf("failed to broadcast: %w", err)
	}
	return len(devices), nil
}

func tokens(devices []*Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Token)
	}
	return out
}
