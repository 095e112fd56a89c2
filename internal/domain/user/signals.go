package user

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// CreatedHandler reacts to a user lifecycle event: registration or the
// completion of the financial profile.
type CreatedHandler func(ctx context.Context, u *User) error

type namedHandler struct {
	name string
	fn   CreatedHandler
}

// Signals lets other packages react to user lifecycle events without the
// user package importing them. Handlers run synchronously in registration
// order; a failing handler is logged and does not stop the others.
type Signals struct {
	mu        sync.RWMutex
	created   []namedHandler
	completed []namedHandler
}

func NewSignals() *Signals {
	return &Signals{}
}

// OnCreated registers fn to run after every registration.
func (s *Signals) OnCreated(name string, fn CreatedHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, namedHandler{name: name, fn: fn})
}

// OnFinancialInfoCompleted registers fn to run after a user submits their
// starting balance.
func (s *Signals) OnFinancialInfoCompleted(name string, fn CreatedHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, namedHandler{name: name, fn: fn})
}

func (s *Signals) fireCreated(ctx context.Context, u *User) {
	s.mu.RLock()
	handlers := append([]namedHandler(nil), s.created...)
	s.mu.RUnlock()
	fire(ctx, "created", handlers, u)
}

func (s *Signals) fireFinancialInfoCompleted(ctx context.Context, u *User) {
	s.mu.RLock()
	handlers := append([]namedHandler(nil), s.completed...)
	s.mu.RUnlock()
	fire(ctx, "financial_info_completed", handlers, u)
}

func fire(ctx context.Context, event string, handlers []namedHandler, u *User) {
	for _, h := range handlers {
		if err := h.fn(ctx, u); err != nil {
			log.Error().Err(err).Str("event", event).Str("handler", h.name).Int64("user_id", u.ID).Msg("user signal handler failed")
		}
	}
}

// LogCreated is the default handler: it records the registration.
func LogCreated(ctx context.Context, u *User) error {
	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("user created")
	return nil
}

// CategorySeeder creates the starter categories of a user.
type CategorySeeder interface {
	SeedDefaults(ctx context.Context, userID int64) error
}

// SeedCategories returns a handler that gives the user the default
// categories. Seeding is idempotent, so it can follow several events.
func SeedCategories(seeder CategorySeeder) CreatedHandler {
	return func(ctx context.Context, u *User) error {
		return seeder.SeedDefaults(ctx, u.ID)
	}
}
