package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seqCounter, spanCounter atomic.Uint64

// NextSeq numbers events in the order tracers receive them.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a process-unique, non-zero span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// getGoroutineID parses the "goroutine N [" header of the current stack.
// Only used to tell workers apart in traces; 0 when the format is unexpected.
func getGoroutineID() uint64 {
	var buf [64]byte
	rest, ok := bytes.CutPrefix(buf[:runtime.Stack(buf[:], false)], []byte("goroutine "))
	if !ok {
		return 0
	}
	num, _, ok := bytes.Cut(rest, []byte(" "))
	if !ok {
		return 0
	}
	gid, err := strconv.ParseUint(string(num), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open span. A span whose scope the tracer does not keep is
// disabled: it has ID 0 and all its methods are no-ops.
type Span struct {
	tracer Tracer
	base   Event // template for the begin and end events
	start  time.Time
	gid    uint64
	extra  map[string]string
}

// Begin opens a span under parent (0 for a root span) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !keeps(t, scope) {
		return &Span{}
	}
	s := &Span{tracer: t, start: time.Now(), gid: getGoroutineID()}
	s.base = Event{
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		GID:      s.gid,
		Name:     name,
	}
	s.emit(KindSpanBegin, s.start, "", nil)
	return s
}

func (s *Span) disabled() bool { return s == nil || s.tracer == nil }

// End emits the end event carrying detail and the extras set so far,
// and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s.disabled() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.start)
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	ev := s.base
	ev.Time, ev.Kind, ev.Detail, ev.Extra = at, kind, detail, extra
	s.tracer.Emit(&ev)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s.disabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s.disabled() {
		return 0
	}
	return s.base.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !keeps(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
	})
}

func keeps(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}
