package round

import "github.com/mcdev12/teamquiz/go/internal/models"

// Snapshot is the complete viewer-facing state of a session
type Snapshot struct {
	State            models.RoundState `json:"state"`
	Round            int               `json:"round"`
	Teams            []models.TeamView `json:"teams"`
	Cursor           int               `json:"cursor"`
	ActiveTeam       string            `json:"active_team"`
	Owner            *models.Team      `json:"owner,omitempty"`
	Prompt           string            `json:"prompt"`
	PromptPending    bool              `json:"prompt_pending"`
	Timer            string            `json:"timer"`
	PromptCount      int               `json:"prompt_count"`
	Status           models.Status     `json:"status"`
	SaveStatus       models.Status     `json:"save_status"`
	CanRequestPrompt bool              `json:"can_request_prompt"`
	CanReportResult  bool              `json:"can_report_result"`
}

// Snapshot captures the current state for display
func (m *Machine) Snapshot() Snapshot {
	teams := m.roster.Teams()
	cursor := m.roster.Cursor()

	views := make([]models.TeamView, len(teams))
	for i, t := range teams {
		views[i] = models.TeamView{Team: t, Index: i, Active: i == cursor}
	}

	active := msgNoTeamsYet
	if cur, ok := m.roster.Current(); ok {
		active = cur.Name
	}

	snap := Snapshot{
		State:            m.state,
		Round:            m.round,
		Teams:            views,
		Cursor:           cursor,
		ActiveTeam:       active,
		Prompt:           m.prompt,
		PromptPending:    m.promptPending,
		Timer:            m.timer.Display(),
		PromptCount:      m.promptCount,
		Status:           m.status,
		SaveStatus:       m.saveStatus,
		CanRequestPrompt: m.state == models.RoundStateIdle,
		CanReportResult:  m.state == models.RoundStateActive && !m.promptPending,
	}
	if owner, ok := m.Owner(); ok {
		snap.Owner = &owner
	}
	return snap
}
