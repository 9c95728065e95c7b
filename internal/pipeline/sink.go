package pipeline

import (
	"sync"
	"time"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// SyncSink serializes events from parallel workers into next.
type SyncSink struct {
	mu   sync.Mutex
	next ProgressSink
}

func NewSyncSink(next ProgressSink) *SyncSink {
	return &SyncSink{next: next}
}

func (s *SyncSink) OnEvent(evt Event) {
	if s == nil || s.next == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnEvent(evt)
}

// EmitQueued marks every file as queued for the first stage.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLex, Status: StatusQueued})
	}
}

// EmitStage reports a stage transition for a single file.
func EmitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
