package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
	wrote   chan struct{}
}

func newRecordingSink() *recordingSink { return &recordingSink{wrote: make(chan struct{}, 10)} }

func (s *recordingSink) Write(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, events)
	s.wrote <- struct{}{}
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestLog_FillsDefaults(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLogger(newRecordingSink(),
		WithFlushInterval(time.Hour),
		WithSessionID(func() string { return "sess-1" }),
		WithClock(func() time.Time { return at }),
	)
	ev := l.Log(PHIUpdate, Fields{Resource: "payment", Action: "webhook"})

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, at, ev.Timestamp)
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, "server", ev.UserAgent)
	assert.True(t, ev.Success)

	failed := l.Log(APIError, Fields{Failed: true, ErrorMessage: "boom"})
	assert.False(t, failed.Success)
	assert.Len(t, l.Buffered(), 2)
}

func TestLog_DropsOldestWhenFull(t *testing.T) {
	l := NewLogger(newRecordingSink(), WithFlushInterval(time.Hour), WithMaxBuffer(3))
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, l.Log(FormStepCompleted, Fields{}).ID)
	}
	buf := l.Buffered()
	require.Len(t, buf, 3)
	assert.Equal(t, ids[2], buf[0].ID)
	assert.Equal(t, ids[4], buf[2].ID)
}

func TestFlush_FailureKeepsEvents(t *testing.T) {
	sink := newRecordingSink()
	sink.err = errors.New("offline")
	l := NewLogger(sink, WithFlushInterval(time.Hour))
	l.Log(PHIAccess, Fields{})

	require.Error(t, l.Flush(context.Background()))
	assert.Len(t, l.Buffered(), 1)

	sink.err = nil
	require.NoError(t, l.Flush(context.Background()))
	assert.Empty(t, l.Buffered())
	assert.Equal(t, 1, sink.count())
}

func TestLog_DebouncesFlush(t *testing.T) {
	sink := newRecordingSink()
	l := NewLogger(sink, WithFlushInterval(20*time.Millisecond))
	l.Log(SessionStart, Fields{})
	l.Log(PHIAccess, Fields{})
	l.Log(PHIUpdate, Fields{})

	select {
	case <-sink.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("flush did not fire")
	}
	assert.Equal(t, 1, sink.count())
	sink.mu.Lock()
	assert.Len(t, sink.batches[0], 3)
	sink.mu.Unlock()
	assert.Eventually(t, func() bool { return len(l.Buffered()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestClose_FlushesAndRejects(t *testing.T) {
	sink := newRecordingSink()
	l := NewLogger(sink, WithFlushInterval(time.Hour))
	l.Log(SessionEnd, Fields{})
	require.NoError(t, l.Close(context.Background()))
	assert.Equal(t, 1, sink.count())

	l.Log(SessionStart, Fields{})
	assert.Empty(t, l.Buffered())
}

func TestEventType_Known(t *testing.T) {
	assert.True(t, SessionTimeout.Known())
	assert.False(t, EventType("DROP_TABLE").Known())
}
