package models

// RoundState is the lifecycle state of the current question round
type RoundState string

const (
	RoundStateIdle   RoundState = "IDLE"
	RoundStateActive RoundState = "ACTIVE"
)

// RoundResult is the outcome reported by the quiz master for a round
type RoundResult string

const (
	RoundResultSuccess RoundResult = "SUCCESS"
	RoundResultFail    RoundResult = "FAIL"
)

// TeamView is a team as shown to the viewer
type TeamView struct {
	Team
	Index  int  `json:"index"`
	Active bool `json:"active"`
}
