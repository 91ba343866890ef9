package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Abinaav-K876/market-crash/internal/api"
	"github.com/Abinaav-K876/market-crash/internal/state"
)

// Config holds synchronization loop settings.
type Config struct {
	Interval time.Duration // poll period (default 1s)
	Timeout  time.Duration // per-request timeout (default 5s)
}

// DefaultConfig returns the default loop settings.
func DefaultConfig() Config {
	return Config{
		Interval: time.Second,
		Timeout:  5 * time.Second,
	}
}

// Loop periodically fetches the authoritative room snapshot and feeds
// it into the store. Transient failures are logged and skipped; the
// next tick always tries again.
type Loop struct {
	cfg    Config
	client *api.Client
	roomID string
	store  *state.Store
	logger *slog.Logger

	// onSessionExpired fires at most once, when the server reports
	// the distinguished session-terminal error.
	onSessionExpired func()
	expiredOnce      sync.Once

	// kick carries out-of-band sync requests after local actions.
	// Capacity 1: bursts coalesce into a single extra poll.
	kick chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a synchronization loop for one room.
func New(cfg Config, client *api.Client, roomID string, store *state.Store, onSessionExpired func(), logger *slog.Logger) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		cfg:              cfg,
		client:           client,
		roomID:           roomID,
		store:            store,
		logger:           logger,
		onSessionExpired: onSessionExpired,
		kick:             make(chan struct{}, 1),
	}
}

// Start begins polling: once immediately, then on every tick.
func (l *Loop) Start(ctx context.Context) {
	l.ctx, l.cancel = context.WithCancel(ctx)

	l.wg.Add(1)
	go l.run()

	l.logger.Info("sync loop started", "room", l.roomID, "interval", l.cfg.Interval)
}

// Stop shuts the loop down and waits for the in-flight poll.
func (l *Loop) Stop(ctx context.Context) error {
	if l.cancel != nil {
		l.cancel()
	}
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		l.logger.Info("sync loop stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Kick requests one immediate out-of-band poll, used after a local
// trade or chat submission so the view catches up before the next
// tick. Non-blocking; concurrent kicks coalesce.
func (l *Loop) Kick() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.pollOnce()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			l.pollOnce()
		case <-l.kick:
			l.pollOnce()
		}
	}
}

// pollOnce runs a single synchronization tick. On any failure the
// store is left untouched.
func (l *Loop) pollOnce() {
	ctx, cancel := context.WithTimeout(l.ctx, l.cfg.Timeout)
	defer cancel()

	snap, err := l.client.RoomState(ctx, l.roomID)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			l.expiredOnce.Do(func() {
				l.logger.Warn("session expired, leaving room", "room", l.roomID)
				if l.onSessionExpired != nil {
					l.onSessionExpired()
				}
			})
			return
		}
		l.logger.Warn("sync tick failed", "room", l.roomID, "err", err)
		return
	}

	l.store.Apply(Normalize(snap))
}
