package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a periodic event naming the most recently opened span
// and how many spans are still open, so a script stuck in a loop or a deep
// recursion shows where it hangs.
type Heartbeat struct {
	tracer Tracer
	every  time.Duration
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// StartHeartbeat starts beating on t every interval. It returns nil when
// tracing is off or interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: t,
		every:  interval,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer close(h.exited)
	tick := time.NewTicker(h.every)
	defer tick.Stop()

	for n := 1; ; n++ {
		select {
		case <-h.done:
			return
		case <-tick.C:
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: beatDetail(n),
			})
		}
	}
}

// beatDetail - "#3 open=2 last=call:fib".
func beatDetail(n int) string {
	open, last := Activity()
	if last == "" {
		return fmt.Sprintf("#%d open=%d", n, open)
	}
	return fmt.Sprintf("#%d open=%d last=%s", n, open, last)
}

// Stop ends the heartbeat and waits for its goroutine. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	<-h.exited
}
