// Package listener relays Postgres NOTIFY events to in-process caches so
// every API instance drops stale entries when one of them is told to.
package listener

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	// Channel carries the key prefix to clear. An empty payload clears all.
	Channel           = "finframe_cache_clear"
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
)

// Clearer is satisfied by *cache.Cache.
type Clearer interface {
	Clear(prefix string)
}

// Execer is satisfied by *sql.DB and *postgres.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CacheListener clears cache entries whenever a message arrives on Channel.
type CacheListener struct {
	connStr    string
	cache      Clearer
	shutdownCh chan struct{}
	done       chan struct{}
}

func NewCacheListener(connStr string, cache Clearer) *CacheListener {
	return &CacheListener{
		connStr:    connStr,
		cache:      cache,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start listens in a background goroutine until Stop or ctx is done.
func (l *CacheListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Info().Str("channel", Channel).Msg("cache listener started")
}

func (l *CacheListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	log.Info().Msg("cache listener stopped")
}

func (l *CacheListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Info().Msg("reconnecting cache listener")
		}
	}
}

func (l *CacheListener) connectAndListen(ctx context.Context) {
	pl := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			log.Debug().Msg("cache listener connected")
		case pq.ListenerEventDisconnected:
			log.Warn().Err(err).Msg("cache listener disconnected")
		case pq.ListenerEventReconnected:
			log.Info().Msg("cache listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Error().Err(err).Msg("cache listener connection attempt failed")
		}
	})
	defer pl.Close()

	if err := pl.Listen(Channel); err != nil {
		log.Error().Err(err).Str("channel", Channel).Msg("failed to listen")
		return
	}

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-pl.Notify:
			if n == nil {
				// connection lost
				return
			}
			l.handle(n)
		case <-time.After(pingInterval):
			go func() {
				if err := pl.Ping(); err != nil {
					log.Warn().Err(err).Msg("cache listener ping failed")
				}
			}()
		}
	}
}

func (l *CacheListener) handle(n *pq.Notification) {
	l.cache.Clear(n.Extra)
	log.Info().Str("prefix", n.Extra).Msg("cache cleared by notification")
}

// Publish asks every listening instance to clear entries under prefix.
func Publish(ctx context.Context, db Execer, prefix string) error {
	if _, err := db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, Channel, prefix); err != nil {
		return fmt.Errorf("failed to publish cache clear: %w", err)
	}
	return nil
}
