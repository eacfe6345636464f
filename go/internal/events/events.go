package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every session event
type Event struct {
	ID        string          `json:"id"`         // Event UUID
	SessionID string          `json:"session_id"` // Session UUID
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of session event
type EventType string

const (
	EventTypeTeamAdded       EventType = "TeamAdded"
	EventTypeTeamRemoved     EventType = "TeamRemoved"
	EventTypeRoundStarted    EventType = "RoundStarted"
	EventTypePromptDelivered EventType = "PromptDelivered"
	EventTypePromptFailed    EventType = "PromptFailed"
	EventTypeRoundResolved   EventType = "RoundResolved"
	EventTypeTimerTick       EventType = "TimerTick"
	EventTypeTimeUp          EventType = "TimeUp"
	EventTypePromptSubmitted EventType = "PromptSubmitted"
)

// New wraps payload in an event envelope
func New(sessionID uuid.UUID, eventType EventType, payload interface{}, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New().String(),
		SessionID: sessionID.String(),
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ParsePayload decodes event data into the matching payload struct
func ParsePayload(event Event) (interface{}, error) {
	var target interface{}
	switch event.Type {
	case EventTypeTeamAdded:
		target = &TeamAddedPayload{}
	case EventTypeTeamRemoved:
		target = &TeamRemovedPayload{}
	case EventTypeRoundStarted:
		target = &RoundStartedPayload{}
	case EventTypePromptDelivered:
		target = &PromptDeliveredPayload{}
	case EventTypePromptFailed:
		target = &PromptFailedPayload{}
	case EventTypeRoundResolved:
		target = &RoundResolvedPayload{}
	case EventTypeTimerTick:
		target = &TimerTickPayload{}
	case EventTypeTimeUp:
		target = &TimeUpPayload{}
	case EventTypePromptSubmitted:
		target = &PromptSubmittedPayload{}
	default:
		return nil, nil // Unknown event type
	}

	if err := json.Unmarshal(event.Data, target); err != nil {
		return nil, err
	}
	return target, nil
}
