package trace

import (
	"fmt"
	"io"
	"sync"
)

// leveled holds the level shared by the concrete tracers.
type leveled struct{ level Level }

func (l leveled) Level() Level  { return l.level }
func (l leveled) Enabled() bool { return l.level > LevelOff }

// accepts lets heartbeats through at every level.
func (l leveled) accepts(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.level.ShouldEmit(ev.Scope)
}

// RingTracer keeps the most recent events in memory. The CLI dumps it when
// a command fails, so a quiet run still leaves a trail.
type RingTracer struct {
	leveled
	mu      sync.RWMutex
	events  []Event
	written uint64 // events ever stored; the next slot is written % len(events)
}

// NewRingTracer keeps up to capacity events; 0 or less means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{leveled: leveled{level}, events: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.accepts(ev) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	t.events[t.written%uint64(len(t.events))] = stored
	t.written++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.lenLocked()
	out := make([]Event, n)
	first := t.written - uint64(n)
	for i := range out {
		out[i] = t.events[(first+uint64(i))%uint64(len(t.events))]
	}
	return out
}

// Len is the number of events currently held.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lenLocked()
}

func (t *RingTracer) lenLocked() int {
	return int(min(t.written, uint64(len(t.events))))
}

// Reset drops every stored event.
func (t *RingTracer) Reset() {
	t.mu.Lock()
	clear(t.events)
	t.written = 0
	t.mu.Unlock()
}

// Dump writes the stored events, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return fmt.Errorf("dump trace ring: %w", err)
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
