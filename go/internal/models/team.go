package models

// Team represents a quiz team taking turns in a session
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
