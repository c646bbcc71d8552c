// Package audit records PHI access and session events. Events are buffered
// in memory and flushed in batches to a Sink on a debounce interval.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	SessionStart      EventType = "SESSION_START"
	SessionEnd        EventType = "SESSION_END"
	SessionTimeout    EventType = "SESSION_TIMEOUT"
	PHIAccess         EventType = "PHI_ACCESS"
	PHIUpdate         EventType = "PHI_UPDATE"
	PHIDelete         EventType = "PHI_DELETE"
	ConsentAccepted   EventType = "CONSENT_ACCEPTED"
	ConsentRevoked    EventType = "CONSENT_REVOKED"
	FormSubmitted     EventType = "FORM_SUBMITTED"
	FormStepCompleted EventType = "FORM_STEP_COMPLETED"
	APIRequest        EventType = "API_REQUEST"
	APIError          EventType = "API_ERROR"
)

// Known reports whether t is one of the declared event types.
func (t EventType) Known() bool {
	switch t {
	case SessionStart, SessionEnd, SessionTimeout, PHIAccess, PHIUpdate, PHIDelete,
		ConsentAccepted, ConsentRevoked, FormSubmitted, FormStepCompleted, APIRequest, APIError:
		return true
	}
	return false
}

type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	EventType    EventType      `json:"eventType"`
	SessionID    string         `json:"sessionId"`
	UserID       string         `json:"userId,omitempty"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	Resource     string         `json:"resource,omitempty"`
	Action       string         `json:"action,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// Fields are the caller-supplied parts of an event.
type Fields struct {
	Resource     string
	Action       string
	Details      map[string]any
	UserID       string
	ErrorMessage string
	// Failed marks the event unsuccessful; events succeed by default.
	Failed bool
}

// Sink persists a batch of events.
type Sink interface {
	Write(ctx context.Context, events []Event) error
}

const (
	DefaultMaxBuffer     = 50
	DefaultFlushInterval = 5 * time.Second
)

// Logger buffers events and flushes them at most once per interval.
type Logger struct {
	sink      Sink
	maxBuffer int
	interval  time.Duration
	sessionID func() string
	userAgent string
	ipAddress string
	now       func() time.Time

	mu      sync.Mutex
	buf     []Event
	pending *time.Timer
	closed  bool
}

type Option func(*Logger)

// WithSessionID sets the function consulted for each event's session id.
func WithSessionID(fn func() string) Option { return func(l *Logger) { l.sessionID = fn } }

// WithClient stamps every event with a user agent and ip address.
func WithClient(userAgent, ipAddress string) Option {
	return func(l *Logger) { l.userAgent, l.ipAddress = userAgent, ipAddress }
}

func WithMaxBuffer(n int) Option { return func(l *Logger) { l.maxBuffer = n } }

func WithFlushInterval(d time.Duration) Option { return func(l *Logger) { l.interval = d } }

func WithClock(now func() time.Time) Option { return func(l *Logger) { l.now = now } }

func NewLogger(sink Sink, opts ...Option) *Logger {
	l := &Logger{
		sink:      sink,
		maxBuffer: DefaultMaxBuffer,
		interval:  DefaultFlushInterval,
		sessionID: func() string { return "server" },
		userAgent: "server",
		ipAddress: "server",
		now:       time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log buffers an event and schedules a flush. The oldest event is dropped
// once the buffer is full.
func (l *Logger) Log(t EventType, f Fields) Event {
	ev := Event{
		ID:           uuid.NewString(),
		Timestamp:    l.now().UTC(),
		EventType:    t,
		SessionID:    l.sessionID(),
		UserID:       f.UserID,
		IPAddress:    l.ipAddress,
		UserAgent:    l.userAgent,
		Resource:     f.Resource,
		Action:       f.Action,
		Details:      f.Details,
		Success:      !f.Failed,
		ErrorMessage: f.ErrorMessage,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ev
	}
	l.buf = append(l.buf, ev)
	if over := len(l.buf) - l.maxBuffer; over > 0 {
		l.buf = append(l.buf[:0:0], l.buf[over:]...)
	}
	if l.pending == nil {
		l.pending = time.AfterFunc(l.interval, func() {
			l.mu.Lock()
			l.pending = nil
			l.mu.Unlock()
			if err := l.Flush(context.Background()); err != nil {
				slog.Warn("audit flush failed, keeping events for retry", "err", err)
			}
		})
	}
	return ev
}

// Flush writes the buffered events. On failure they stay buffered.
func (l *Logger) Flush(ctx context.Context) error {
	l.mu.Lock()
	if len(l.buf) == 0 {
		l.mu.Unlock()
		return nil
	}
	batch := append([]Event(nil), l.buf...)
	l.mu.Unlock()

	if err := l.sink.Write(ctx, batch); err != nil {
		return err
	}

	sent := make(map[string]struct{}, len(batch))
	for _, ev := range batch {
		sent[ev.ID] = struct{}{}
	}
	l.mu.Lock()
	kept := l.buf[:0]
	for _, ev := range l.buf {
		if _, ok := sent[ev.ID]; !ok {
			kept = append(kept, ev)
		}
	}
	l.buf = kept
	l.mu.Unlock()
	return nil
}

// Buffered returns a copy of the events not yet flushed.
func (l *Logger) Buffered() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.buf...)
}

// Close cancels the pending flush, flushes once more and rejects new events.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.Flush(ctx)
}
