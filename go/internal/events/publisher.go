package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Publisher delivers session events to an external sink
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log, for development
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("session_id", event.SessionID).
		RawJSON("data", event.Data).
		Msg("publishing event")
	return nil
}
