package events

import (
	"time"
)

// Event payload types shared between the session and its transports

// TeamAddedPayload is the payload for a TeamAdded event
type TeamAddedPayload struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Index    int    `json:"index"`
}

// TeamRemovedPayload is the payload for a TeamRemoved event
type TeamRemovedPayload struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Index    int    `json:"index"`
	Cursor   int    `json:"cursor"`
}

// RoundStartedPayload is the payload for a RoundStarted event
type RoundStartedPayload struct {
	Round     int       `json:"round"`
	TeamID    string    `json:"team_id"`
	TeamName  string    `json:"team_name"`
	StartedAt time.Time `json:"started_at"`
}

// PromptDeliveredPayload is the payload for a PromptDelivered event
type PromptDeliveredPayload struct {
	Round        int    `json:"round"`
	TeamID       string `json:"team_id"`
	Prompt       string `json:"prompt"`
	TimerSeconds int    `json:"timer_seconds"`
	TotalPrompts int    `json:"total_prompts"`
}

// PromptFailedPayload is the payload for a PromptFailed event
type PromptFailedPayload struct {
	Round  int    `json:"round"`
	TeamID string `json:"team_id"`
	Reason string `json:"reason"`
}

// RoundResolvedPayload is the payload for a RoundResolved event
type RoundResolvedPayload struct {
	Round        int       `json:"round"`
	TeamID       string    `json:"team_id"`
	TeamName     string    `json:"team_name"`
	Result       string    `json:"result"`
	Score        int       `json:"score"`
	NextTeamID   string    `json:"next_team_id"`
	NextTeamName string    `json:"next_team_name"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// TimerTickPayload contains the per-second countdown update
type TimerTickPayload struct {
	Round            int `json:"round"`
	TimeRemainingSec int `json:"time_remaining_sec"`
}

// TimeUpPayload is the payload for a TimeUp event
type TimeUpPayload struct {
	Round  int    `json:"round"`
	TeamID string `json:"team_id"`
}

// PromptSubmittedPayload is the payload for a PromptSubmitted event
type PromptSubmittedPayload struct {
	Prompt       string `json:"prompt"`
	TotalPrompts int    `json:"total_prompts"`
}
