package events

import "github.com/rs/zerolog"

func logSyncEvent(log zerolog.Logger, evt SyncEvent) {
	var e *zerolog.Event
	switch evt.Type {
	case EventError, EventWarn:
		e = log.Warn()
	case EventSuccess:
		e = log.Info()
	default:
		e = log.Debug()
	}

	e = e.Str("id", evt.ID).
		Str("op", string(evt.Op)).
		Str("field", evt.Field).
		Dur("duration", evt.Duration)
	if evt.Value != nil {
		e = e.Interface("value", evt.Value)
	}
	if evt.Error != "" {
		e = e.Str("error", evt.Error)
	}

	switch evt.Type {
	case EventError:
		e.Msg("backend sync failed")
	case EventSuccess:
		e.Msg("backend sync done")
	default:
		e.Msg("backend sync")
	}
}
