package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives the outcome of background sync tasks.
type Sink func(evt SyncEvent)

// LoggerSink writes every event through log.
func LoggerSink(log zerolog.Logger) Sink {
	return func(evt SyncEvent) {
		logSyncEvent(log, evt)
	}
}

// Tee fans an event out to several sinks. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return func(evt SyncEvent) {
		for _, s := range sinks {
			if s != nil {
				s(evt)
			}
		}
	}
}

// Recorder is a Sink that keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []SyncEvent
}

func (r *Recorder) Sink() Sink {
	return func(evt SyncEvent) {
		r.mu.Lock()
		r.events = append(r.events, evt)
		r.mu.Unlock()
	}
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []SyncEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SyncEvent, len(r.events))
	copy(out, r.events)
	return out
}
