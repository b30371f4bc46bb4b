package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/elecperu/cabina/internal/storage"
)

// TimeBudget is the wall-clock-anchored voting countdown. The anchor is an
// absolute timestamp persisted in the session store, so remaining time is
// recomputed from (now - anchor) rather than counted down in memory and a
// kiosk restart does not reset the window.
type TimeBudget struct {
	store    storage.Store
	clock    Clock
	duration time.Duration
}

// NewTimeBudget creates a budget of duration backed by store.
func NewTimeBudget(store storage.Store, clock Clock, duration time.Duration) *TimeBudget {
	return &TimeBudget{store: store, clock: clock, duration: duration}
}

// Start persists the anchor timestamp. Idempotent: an anchor already
// present (a session resumed after restart, or a retried load) is kept, so
// re-entry never restarts the window. Returns the effective anchor.
func (tb *TimeBudget) Start() (time.Time, error) {
	if anchor, err := tb.Anchor(); err == nil {
		return anchor, nil
	} else if !errors.Is(err, ErrNoAnchor) {
		return time.Time{}, err
	}

	anchor := tb.clock.Now()
	if err := tb.store.Save(storage.KeySessionStart, strconv.FormatInt(anchor.UnixMilli(), 10)); err != nil {
		return time.Time{}, fmt.Errorf("failed to persist session anchor: %w", err)
	}
	return anchor, nil
}

// Anchor reads the persisted anchor. ErrNoAnchor means the session never
// properly started; callers must treat that as terminal.
func (tb *TimeBudget) Anchor() (time.Time, error) {
	raw, ok, err := tb.store.Load(storage.KeySessionStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load session anchor: %w", err)
	}
	if !ok {
		return time.Time{}, ErrNoAnchor
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad anchor %q", ErrNoAnchor, raw)
	}
	return time.UnixMilli(ms), nil
}

// Remaining returns max(0, duration - (now - anchor)). It is monotonically
// non-increasing in now and never negative.
func (tb *TimeBudget) Remaining(now time.Time) (time.Duration, error) {
	anchor, err := tb.Anchor()
	if err != nil {
		return 0, err
	}
	left := tb.duration - now.Sub(anchor)
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

// Clear removes the persisted anchor.
func (tb *TimeBudget) Clear() error {
	return tb.store.Delete(storage.KeySessionStart)
}

// FormatRemaining renders a countdown as mm:ss for display.
func FormatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
