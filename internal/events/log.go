package events

import (
	"github.com/rs/zerolog"
)

// LogHandler writes every received event to the logger at info level.
func LogHandler(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		logger.Info().
			Str("event", event.Type).
			Uint64("seq", event.Seq).
			RawJSON("payload", event.Payload).
			Time("created_at", event.CreatedAt).
			Msg("Domain event")
		return nil
	}
}
