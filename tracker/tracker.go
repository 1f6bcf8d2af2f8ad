// Package tracker turns a periodic stream of foreground-app samples into
// completed usage sessions.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/appwatch/internal/models"
	"github.com/ayoisaiah/appwatch/store"
)

// DefaultSampleInterval bounds the minimum observable session length.
// Focus changes shorter than one tick may be merged into the next sample
// or dropped entirely; this is a polling-cost trade-off, not a bug.
const DefaultSampleInterval = time.Second

// Tracker maintains at most one in-flight session and emits completed
// sessions to the store on app change or shutdown. Its state is shared
// between the sampling loop and the stop path and is only touched under
// the mutex.
type Tracker struct {
	db       store.DB
	sampler  Sampler
	interval time.Duration

	mu           sync.Mutex
	currentApp   string
	sessionStart time.Time
	running      bool
}

// New returns a tracker in the idle state.
func New(db store.DB, sampler Sampler, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}

	return &Tracker{
		db:       db,
		sampler:  sampler,
		interval: interval,
	}
}

// Run samples the foreground application on a fixed cadence until the
// context is cancelled, then flushes the in-flight session. The loop never
// terminates due to a single storage failure.
func (t *Tracker) Run(ctx context.Context) {
	t.start()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Stop(time.Now())
			return
		case now := <-ticker.C:
			app, _, ok := t.sampler.Sample()
			t.observe(app, ok, now)
		}
	}
}

// start marks the tracker as running. Samples observed before start or
// after Stop are discarded.
func (t *Tracker) start() {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
}

// observe applies a single focus sample to the state machine.
func (t *Tracker) observe(app string, ok bool, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || !ok {
		return
	}

	if app == t.currentApp {
		return
	}

	if t.currentApp != "" {
		t.persist(t.currentApp, t.sessionStart, now)
	}

	t.currentApp = app
	t.sessionStart = now
}

// Stop flushes the in-flight session, ending it at the stop time, and
// transitions the tracker to idle. The tracker is terminal after Stop and
// emits nothing on subsequent calls.
func (t *Tracker) Stop(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.currentApp != "" {
		t.persist(t.currentApp, t.sessionStart, now)
	}

	t.currentApp = ""
	t.sessionStart = time.Time{}
	t.running = false
}

// persist writes a completed session, discarding zero and negative
// durations. Callers must hold the mutex.
func (t *Tracker) persist(app string, start, end time.Time) {
	sess := models.NewUsageSession(app, start, end)
	if !sess.Valid() {
		return
	}

	if err := t.db.SaveSession(&sess); err != nil {
		slog.Error(
			"failed to persist usage session",
			slog.String("app", app),
			slog.Any("error", err),
		)
	}
}

// Current returns a snapshot of the in-flight session, if any.
func (t *Tracker) Current() (app string, since time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.currentApp, t.sessionStart, t.currentApp != ""
}
