package intakeguard

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
	"github.com/tbeaudouin05/otmens-intake/pkg/intake"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
		var next *fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.at.After(end) {
				next = t
				break
			}
		}
		if next == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		next.stopped = true
		c.now = next.at
		c.mu.Unlock()
		next.fn()
	}
}

type discardSink struct{}

func (discardSink) Write(context.Context, []audit.Event) error { return nil }

type harness struct {
	clock     *fakeClock
	storage   *intake.MemoryStorage
	audit     *audit.Logger
	warnings  []int
	redirects []string
	guard     *Guard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), storage: intake.NewMemoryStorage()}
	h.audit = audit.NewLogger(discardSink{}, audit.WithFlushInterval(time.Hour))
	h.guard = New(h.storage,
		WithClock(h.clock),
		WithAudit(h.audit),
		WithOnWarning(func(m int) { h.warnings = append(h.warnings, m) }),
		WithRedirect(func(p string) { h.redirects = append(h.redirects, p) }),
	)
	return h
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	rec := intake.New()
	rec.Name.FirstName = "Ana"
	require.NoError(t, intake.Save(h.storage, rec))
	h.storage.Set("intake_goals", "energy")
	h.storage.Set("telehealth_consent_accepted", "true")
	h.storage.Set("medical_conditions", `["hypertension"]`)
}

func (h *harness) eventTypes() []audit.EventType {
	var out []audit.EventType
	for _, e := range h.audit.Buffered() {
		out = append(out, e.EventType)
	}
	return out
}

func TestGuard_WarnsThenExpires(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.guard.Start()

	h.clock.Advance(25 * time.Minute)
	assert.Equal(t, []int{5}, h.warnings)
	assert.Empty(t, h.redirects)

	h.clock.Advance(5 * time.Minute)
	assert.Equal(t, []string{ExpiredPath}, h.redirects)
	assert.Empty(t, h.storage.Keys(), "all intake data wiped")
	_, ok := h.storage.Get("medical_conditions")
	assert.False(t, ok)
	assert.Equal(t, []audit.EventType{audit.SessionStart, audit.SessionTimeout}, h.eventTypes())
	assert.Zero(t, h.guard.Remaining())
}

func TestGuard_ActivityPostponesExpiry(t *testing.T) {
	h := newHarness(t)
	h.guard.Start()

	h.clock.Advance(20 * time.Minute)
	h.guard.Activity("keydown")
	h.clock.Advance(20 * time.Minute)
	assert.Empty(t, h.redirects)
	assert.Equal(t, 10*time.Minute, h.guard.Remaining())

	h.clock.Advance(10 * time.Minute)
	assert.Equal(t, []string{ExpiredPath}, h.redirects)
}

func TestGuard_ActivityThrottle(t *testing.T) {
	h := newHarness(t)
	h.guard.Start()

	h.clock.Advance(500 * time.Millisecond)
	h.guard.Activity("mousemove")
	assert.Equal(t, 30*time.Minute-500*time.Millisecond, h.guard.Remaining(), "within a second of the last reset")

	h.clock.Advance(600 * time.Millisecond)
	h.guard.Activity("mousemove")
	assert.Equal(t, 30*time.Minute, h.guard.Remaining())
}

func TestGuard_IgnoresUnknownSignals(t *testing.T) {
	h := newHarness(t)
	h.guard.Start()
	h.clock.Advance(time.Minute)
	h.guard.Activity("focus")
	assert.Equal(t, 29*time.Minute, h.guard.Remaining())
}

func TestGuard_WarningRoundsUp(t *testing.T) {
	h := newHarness(t)
	h.guard = New(h.storage,
		WithClock(h.clock),
		WithTimeout(10*time.Minute),
		WithWarning(90*time.Second),
		WithOnWarning(func(m int) { h.warnings = append(h.warnings, m) }),
	)
	h.guard.Start()
	h.clock.Advance(10*time.Minute - 90*time.Second)
	assert.Equal(t, []int{2}, h.warnings)
}

func TestGuard_WarningNotShorterThanTimeout(t *testing.T) {
	h := newHarness(t)
	h.guard = New(h.storage,
		WithClock(h.clock),
		WithTimeout(time.Minute),
		WithWarning(time.Minute),
		WithOnWarning(func(m int) { h.warnings = append(h.warnings, m) }),
	)
	h.guard.Start()
	h.clock.Advance(time.Minute)
	assert.Empty(t, h.warnings)
}

func TestGuard_StopDisarms(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.guard.Start()
	h.guard.Stop()
	h.clock.Advance(time.Hour)
	assert.Empty(t, h.redirects)
	assert.NotEmpty(t, h.storage.Keys())
}

func TestCheckReload(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.guard.CheckReload("reload"), "nothing stored")

	h.seed(t)
	assert.False(t, h.guard.CheckReload("navigate"))
	assert.NotEmpty(t, h.storage.Keys())

	assert.True(t, h.guard.CheckReload("reload"))
	assert.Empty(t, h.storage.Keys())
	assert.Equal(t, []string{RestartPath}, h.redirects)
	assert.Contains(t, h.eventTypes(), audit.PHIDelete)
}

func TestShouldConfirmLeave(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.guard.ShouldConfirmLeave())

	h.seed(t)
	assert.True(t, h.guard.ShouldConfirmLeave())

	h.storage.Set("checkout_redirect_in_progress", "true")
	assert.False(t, h.guard.ShouldConfirmLeave())

	h.storage.Remove("checkout_redirect_in_progress")
	rec := intake.Load(h.storage)
	rec.CheckoutRedirect = true
	require.NoError(t, intake.Save(h.storage, rec))
	assert.False(t, h.guard.ShouldConfirmLeave())
}

func TestGuard_ContactOnly(t *testing.T) {
	h := newHarness(t)
	h.storage.Set("intake_contact", `{"email":"a@b.co"}`)

	assert.True(t, h.guard.ShouldConfirmLeave())
	assert.False(t, h.guard.CheckReload("reload"), "contact details alone do not restart the intake")
	assert.Empty(t, h.redirects)
	_, ok := h.storage.Get("intake_contact")
	assert.True(t, ok)
}
