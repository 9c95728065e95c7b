package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events of a run in memory. With a sink set by
// DumpOnClose it works as a flight recorder: nothing is written while the
// script runs and the retained tail goes to the sink on Close.
type RingTracer struct {
	mu    sync.RWMutex
	buf   []Event
	next  int // slot for the next event
	n     int // stored events, up to len(buf)
	level Level

	sink   io.Writer
	format Format
}

// NewRingTracer keeps up to capacity events; non-positive means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// DumpOnClose makes Close write the retained events to w.
func (t *RingTracer) DumpOnClose(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	t.sink, t.format = w, format
	t.mu.Unlock()
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	// heartbeats пишем всегда, иначе в хвосте не видно зависания
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Event, 0, t.n)
	start := (t.next - t.n + len(t.buf)) % len(t.buf)
	for i := range t.n {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Script returns the retained events of the "run" span tagged with path
// and of everything nested in it, plus heartbeats.
func (t *RingTracer) Script(path string) []Event {
	all := t.Snapshot()
	spans := make(map[uint64]bool)
	for _, ev := range all {
		if ev.Kind == KindSpanEnd && ev.Extra["script"] == path {
			spans[ev.SpanID] = true
		}
	}
	var out []Event
	for _, ev := range all {
		switch {
		case ev.Kind == KindHeartbeat, spans[ev.SpanID]:
		case ev.ParentID != 0 && spans[ev.ParentID]:
			if ev.SpanID != 0 {
				spans[ev.SpanID] = true
			}
		default:
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Dump writes the retained events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close dumps to the DumpOnClose sink, if any, and closes it.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	sink, format := t.sink, t.format
	t.sink = nil
	t.mu.Unlock()
	if sink == nil {
		return nil
	}
	if err := t.Dump(sink, format); err != nil {
		return err
	}
	if c, ok := sink.(io.Closer); ok && !isStdStream(sink) {
		return c.Close()
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
