package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"modelhub/internal/logger"
)

// Selector wraps a primary [Store] and falls back to a fresh in-memory store
// when the primary stays unreachable for longer than the configured window.
//
// The switch is one-way: once the fallback is active the selector never
// returns to the primary, so callers see one consistent data set for the
// rest of the process lifetime. The fallback store starts empty. A primary
// that recovers within the window clears the outage without any switch.
//
// Selector itself implements [Store]; every call is delegated to whichever
// backend [Selector.Current] returns.
type Selector struct {
	primary Store
	window  time.Duration
	logger  *logger.Logger

	fallbackActive atomic.Bool
	activate       sync.Once
	fallback       *MemoryStore

	mu        sync.Mutex
	downSince time.Time
}

var _ Store = (*Selector)(nil)

// NewSelector wraps primary with fallback behaviour. window is how long the
// primary may stay unreachable before the in-memory fallback takes over.
func NewSelector(primary Store, window time.Duration, log *logger.Logger) *Selector {
	return &Selector{
		primary: primary,
		window:  window,
		logger:  log,
	}
}

// Current returns the backend all operations are served by: the primary, or
// the in-memory fallback after a switch.
func (s *Selector) Current() Store {
	if s.fallbackActive.Load() {
		return s.fallback
	}
	return s.primary
}

// Probe pings the primary once and advances the outage clock. The first
// failed probe starts the window; a probe failing after the window has
// elapsed activates the fallback; a successful probe before that resets the
// clock. Once the fallback is active probes are no-ops.
func (s *Selector) Probe(ctx context.Context) {
	if s.fallbackActive.Load() {
		return
	}

	err := s.primary.Ping(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		if !s.downSince.IsZero() {
			s.logger.Info().Str("func", "*Selector.Probe").Msg("primary storage recovered within fallback window")
			s.downSince = time.Time{}
		}
		return
	}

	now := time.Now()
	if s.downSince.IsZero() {
		s.downSince = now
		s.logger.Warn().Err(err).Str("func", "*Selector.Probe").Msg("primary storage unreachable, fallback window started")
		return
	}

	if now.Sub(s.downSince) >= s.window {
		s.activateFallback()
	}
}

// Run probes the primary every interval until ctx is cancelled or the
// fallback activates. Meant to be started as a goroutine at boot.
func (s *Selector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.fallbackActive.Load() {
				return
			}
			s.Probe(ctx)
		}
	}
}

// activateFallback switches to the in-memory store. Callers must hold s.mu.
func (s *Selector) activateFallback() {
	s.activate.Do(func() {
		s.fallback = NewMemoryStore()
		s.fallbackActive.Store(true)
		s.logger.Error().Str("func", "*Selector.activateFallback").
			Dur("window", s.window).
			Msg("primary storage unreachable past fallback window, switching to in-memory store")
	})
}

func (s *Selector) Users() UserRepository       { return s.Current().Users() }
func (s *Selector) Models() ModelRepository     { return s.Current().Models() }
func (s *Selector) Settings() SettingRepository { return s.Current().Settings() }
func (s *Selector) Hotspots() HotspotRepository { return s.Current().Hotspots() }

// Ping implements [Store] against the active backend.
func (s *Selector) Ping(ctx context.Context) error {
	return s.Current().Ping(ctx)
}

// Close closes the primary store. The in-memory fallback holds no external
// resources.
func (s *Selector) Close() error {
	return s.primary.Close()
}
