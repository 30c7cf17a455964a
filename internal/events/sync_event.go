package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// SyncOp names the background operation that produced an event.
type SyncOp string

const (
	OpPull      SyncOp = "pull"
	OpPush      SyncOp = "push"
	OpBatchPull SyncOp = "batch-pull"
	OpBatchPush SyncOp = "batch-push"
)

// SyncEvent is the outcome of one background sync task. It is only ever
// consumed by a Sink.
type SyncEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Op        SyncOp        `json:"op"`
	Field     string        `json:"field"`
	Value     any           `json:"value,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

func newSyncEvent(eventType EventType, op SyncOp, field string) SyncEvent {
	return SyncEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Op:        op,
		Field:     field,
		Timestamp: time.Now(),
	}
}

// NewSuccess creates a success SyncEvent carrying the applied or sent value.
func NewSuccess(op SyncOp, field string, value any) SyncEvent {
	evt := newSyncEvent(EventSuccess, op, field)
	evt.Value = value
	return evt
}

// NewFailure creates an error SyncEvent.
func NewFailure(op SyncOp, field string, err error) SyncEvent {
	evt := newSyncEvent(EventError, op, field)
	if err != nil {
		evt.Error = err.Error()
	}
	return evt
}

// NewWarn creates a warn SyncEvent for partial outcomes.
func NewWarn(op SyncOp, field string, message string) SyncEvent {
	evt := newSyncEvent(EventWarn, op, field)
	evt.Error = message
	return evt
}

// Failed reports whether the task did not complete.
func (e SyncEvent) Failed() bool {
	return e.Type == EventError
}
