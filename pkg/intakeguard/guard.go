// Package intakeguard enforces the inactivity policy for intake sessions:
// after a period without user activity all PHI is wiped from client
// storage, and a hard reload with answers present starts over.
package intakeguard

import (
	"sync"
	"time"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
	"github.com/tbeaudouin05/otmens-intake/pkg/intake"
)

const (
	// ExpiredPath is where the user lands after an inactivity timeout.
	ExpiredPath = "/?session=expired"
	// RestartPath is where a reload with prior data sends the user.
	RestartPath = "/"

	throttle = time.Second
)

// ActivitySignals are the interaction events that count as activity.
var ActivitySignals = map[string]bool{
	"mousedown":  true,
	"mousemove":  true,
	"keydown":    true,
	"scroll":     true,
	"touchstart": true,
	"click":      true,
}

type Option func(*Guard)

func WithTimeout(d time.Duration) Option { return func(g *Guard) { g.timeout = d } }

// WithWarning sets how long before expiry the warning fires. A warning not
// shorter than the timeout is never shown.
func WithWarning(d time.Duration) Option { return func(g *Guard) { g.warning = d } }

// WithOnWarning receives the remaining whole minutes, rounded up.
func WithOnWarning(fn func(remainingMinutes int)) Option { return func(g *Guard) { g.onWarning = fn } }

func WithRedirect(fn func(path string)) Option { return func(g *Guard) { g.redirect = fn } }

func WithAudit(l *audit.Logger) Option { return func(g *Guard) { g.audit = l } }

func WithClock(c Clock) Option { return func(g *Guard) { g.clock = c } }

type Guard struct {
	storage   intake.Storage
	timeout   time.Duration
	warning   time.Duration
	onWarning func(int)
	redirect  func(string)
	audit     *audit.Logger
	clock     Clock

	mu           sync.Mutex
	running      bool
	gen          uint64
	lastActivity time.Time
	lastReset    time.Time
	warnTimer    Timer
	expiryTimer  Timer
}

func New(storage intake.Storage, opts ...Option) *Guard {
	g := &Guard{
		storage:  storage,
		timeout:  config.SessionTimeout,
		warning:  config.SessionWarning,
		redirect: func(string) {},
		clock:    realClock{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Start arms the timers and records the session start.
func (g *Guard) Start() {
	g.mu.Lock()
	g.running = true
	g.resetLocked()
	g.mu.Unlock()
	g.log(audit.SessionStart, audit.Fields{Resource: "intake", Action: "start"})
}

// Stop disarms the timers without touching storage.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	g.gen++
	g.stopTimersLocked()
}

// Activity reports a user interaction. Unknown signals are ignored, and
// resets are throttled to one per second on the leading edge.
func (g *Guard) Activity(signal string) {
	if !ActivitySignals[signal] {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return
	}
	if now := g.clock.Now(); now.Sub(g.lastReset) < throttle {
		return
	}
	g.resetLocked()
}

// Reset restarts the inactivity window immediately, e.g. when the user
// chooses to continue after the warning.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.resetLocked()
	}
}

// Remaining is the time left before expiry.
func (g *Guard) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return 0
	}
	if left := g.timeout - g.clock.Now().Sub(g.lastActivity); left > 0 {
		return left
	}
	return 0
}

func (g *Guard) resetLocked() {
	now := g.clock.Now()
	g.lastActivity, g.lastReset = now, now
	g.gen++
	gen := g.gen
	g.stopTimersLocked()
	if g.onWarning != nil && g.warning < g.timeout {
		g.warnTimer = g.clock.AfterFunc(g.timeout-g.warning, func() { g.fireWarning(gen) })
	}
	g.expiryTimer = g.clock.AfterFunc(g.timeout, func() { g.expire(gen) })
}

func (g *Guard) stopTimersLocked() {
	if g.warnTimer != nil {
		g.warnTimer.Stop()
		g.warnTimer = nil
	}
	if g.expiryTimer != nil {
		g.expiryTimer.Stop()
		g.expiryTimer = nil
	}
}

func (g *Guard) fireWarning(gen uint64) {
	g.mu.Lock()
	if gen != g.gen || !g.running {
		g.mu.Unlock()
		return
	}
	left := g.timeout - g.clock.Now().Sub(g.lastActivity)
	g.mu.Unlock()

	minutes := int((left + time.Minute - 1) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	g.onWarning(minutes)
}

func (g *Guard) expire(gen uint64) {
	g.mu.Lock()
	if gen != g.gen || !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	g.stopTimersLocked()
	g.mu.Unlock()

	intake.Wipe(g.storage)
	g.log(audit.SessionTimeout, audit.Fields{Resource: "intake", Action: "expire", Details: map[string]any{"timeoutMinutes": int(g.timeout / time.Minute)}})
	g.redirect(ExpiredPath)
}

// CheckReload wipes and restarts the intake when the page was hard
// reloaded while answers were stored. It reports whether it redirected.
// navigationType is the navigation-timing type: "navigate", "reload", ...
func (g *Guard) CheckReload(navigationType string) bool {
	if navigationType != "reload" || !intake.HasPriorData(g.storage) {
		return false
	}
	g.Stop()
	intake.Wipe(g.storage)
	g.log(audit.PHIDelete, audit.Fields{Resource: "intake", Action: "reload"})
	g.redirect(RestartPath)
	return true
}

// ShouldConfirmLeave reports whether leaving the page should prompt: some
// answers exist and no checkout redirect is under way.
func (g *Guard) ShouldConfirmLeave() bool {
	if v, ok := g.storage.Get("checkout_redirect_in_progress"); ok && v == "true" {
		return false
	}
	if _, ok := g.storage.Get(intake.RecordKey); ok && intake.Load(g.storage).CheckoutRedirect {
		return false
	}
	return intake.HasStarted(g.storage)
}

func (g *Guard) log(t audit.EventType, f audit.Fields) {
	if g.audit != nil {
		g.audit.Log(t, f)
	}
}
