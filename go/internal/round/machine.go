// Package round implements the question round lifecycle for a quiz session.
//
// The Machine is synchronous and holds no goroutines. The session event loop
// feeds it one input at a time, performs the gateway calls it asks for, and
// routes their completions back in through DeliverPrompt / FailPrompt.
package round

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/models"
	"github.com/mcdev12/teamquiz/go/internal/roster"
)

// Timer is the countdown the machine arms and cancels as rounds start and end
type Timer interface {
	Start(seconds int)
	Stop()
	Display() string
}

// DefaultTimerSeconds is used when neither the gateway nor config declare a duration
const DefaultTimerSeconds = 5

// Ticket identifies a round whose prompt fetch has been requested
type Ticket struct {
	Round int
	Team  models.Team
}

// Resolution describes a finished round
type Resolution struct {
	Round  int
	Team   models.Team // round owner after scoring
	Result models.RoundResult
	Next   models.Team
}

// Machine governs when prompts may be requested and results recorded
type Machine struct {
	roster         *roster.Roster
	timer          Timer
	defaultSeconds int
	minPrompt      int

	state         models.RoundState
	round         int
	owner         int
	promptPending bool
	prompt        string
	promptCount   int

	status     models.Status
	saveStatus models.Status
}

// NewMachine creates an idle machine over an empty roster.
// defaultSeconds <= 0 selects DefaultTimerSeconds and minPrompt <= 0 selects
// models.MinPromptLength.
func NewMachine(timer Timer, defaultSeconds, promptCount, minPrompt int) *Machine {
	if defaultSeconds <= 0 {
		defaultSeconds = DefaultTimerSeconds
	}
	if minPrompt <= 0 {
		minPrompt = models.MinPromptLength
	}
	if promptCount < 0 {
		promptCount = 0
	}
	return &Machine{
		roster:         roster.New(),
		timer:          timer,
		defaultSeconds: defaultSeconds,
		minPrompt:      minPrompt,
		state:          models.RoundStateIdle,
		owner:          -1,
		promptCount:    promptCount,
		status:         models.Info(msgWelcome),
	}
}

// State returns the current round state
func (m *Machine) State() models.RoundState {
	return m.state
}

// Round returns the number of the latest started round
func (m *Machine) Round() int {
	return m.round
}

// Status returns the main status line
func (m *Machine) Status() models.Status {
	return m.status
}

// SaveStatus returns the prompt submission status line
func (m *Machine) SaveStatus() models.Status {
	return m.saveStatus
}

// PromptCount returns the mirrored prompt pool size
func (m *Machine) PromptCount() int {
	return m.promptCount
}

// Teams returns the roster in order
func (m *Machine) Teams() []models.Team {
	return m.roster.Teams()
}

// Cursor returns the index of the team whose turn it is
func (m *Machine) Cursor() int {
	return m.roster.Cursor()
}

// Owner returns the team that owns the active round
func (m *Machine) Owner() (models.Team, bool) {
	if m.state != models.RoundStateActive {
		return models.Team{}, false
	}
	return m.roster.Get(m.owner)
}

// AddTeam appends a team to the roster. Teams may join during a round.
func (m *Machine) AddTeam(name string) (models.Team, error) {
	team, err := m.roster.Add(name)
	if err != nil {
		if strings.TrimSpace(name) == "" {
			m.status = models.Error(msgTeamNameEmpty)
		} else {
			m.status = models.Error(msgTeamNameExists)
		}
		return models.Team{}, err
	}

	m.status = models.Done(teamReady(team.Name))
	return team, nil
}

// RemoveTeam deletes the team at index. It is rejected while a round is
// active; an out-of-bounds index is ignored and reports ok=false.
func (m *Machine) RemoveTeam(index int) (team models.Team, ok bool, err error) {
	if m.state == models.RoundStateActive {
		m.status = models.Error(msgFinishRound)
		return models.Team{}, false, fmt.Errorf("remove team %d: %w", index, models.ErrRoundInProgress)
	}

	team, ok = m.roster.Remove(index)
	if !ok {
		return models.Team{}, false, nil
	}

	m.status = models.Info(teamRemoved(team.Name))
	return team, true, nil
}

// RequestPrompt opens a round for the team under the cursor. The caller must
// fetch a prompt and report back with the returned ticket.
func (m *Machine) RequestPrompt() (Ticket, error) {
	if m.roster.Len() == 0 {
		m.status = models.Error(msgAddTeamFirst)
		return Ticket{}, fmt.Errorf("request prompt with empty roster: %w", models.ErrValidation)
	}
	if m.state == models.RoundStateActive {
		m.status = models.Error(msgRoundRunning)
		return Ticket{}, fmt.Errorf("request prompt: %w", models.ErrRoundInProgress)
	}

	team, _ := m.roster.Current()
	m.state = models.RoundStateActive
	m.round++
	m.owner = m.roster.Cursor()
	m.promptPending = true
	m.prompt = ""
	m.status = models.Info(loadingFor(team.Name))

	log.Debug().Int("round", m.round).Str("team", team.Name).Msg("round opened")
	return Ticket{Round: m.round, Team: team}, nil
}

// DeliverPrompt completes the fetch for round and starts the countdown.
// It reports false for a completion that no longer matches the pending fetch.
func (m *Machine) DeliverPrompt(round int, p models.Prompt) bool {
	if !m.awaiting(round) {
		return false
	}

	seconds := m.defaultSeconds
	if p.TimerSeconds != nil && *p.TimerSeconds > 0 {
		seconds = *p.TimerSeconds
	}
	if p.TotalPrompts != nil && *p.TotalPrompts >= 0 {
		m.promptCount = *p.TotalPrompts
	}

	m.prompt = p.Text
	m.promptPending = false
	m.timer.Start(seconds)

	owner, _ := m.roster.Get(m.owner)
	m.status = models.Info(teamsTurn(owner.Name))
	return true
}

// FailPrompt abandons round after a failed fetch and returns to Idle
func (m *Machine) FailPrompt(round int) bool {
	if !m.awaiting(round) {
		return false
	}

	m.timer.Stop()
	m.state = models.RoundStateIdle
	m.owner = -1
	m.promptPending = false
	m.prompt = ""
	m.status = models.Error(msgFetchFailed)
	return true
}

// ReportResult resolves the active round. Outside a round with a delivered
// prompt it returns ErrIdleAction and changes nothing, status included.
func (m *Machine) ReportResult(result models.RoundResult) (Resolution, error) {
	if m.state != models.RoundStateActive || m.promptPending {
		return Resolution{}, fmt.Errorf("report %s: %w", result, models.ErrIdleAction)
	}

	success := result == models.RoundResultSuccess
	owner, _ := m.roster.Get(m.owner)
	if success {
		owner, _ = m.roster.IncrementScore(m.owner)
	} else {
		result = models.RoundResultFail
	}

	m.timer.Stop()
	m.state = models.RoundStateIdle
	m.owner = -1
	m.promptPending = false

	m.roster.Advance()
	next, _ := m.roster.Current()

	if success {
		m.status = models.Done(resolvedMessage(owner.Name, next.Name, true))
	} else {
		m.status = models.Info(resolvedMessage(owner.Name, next.Name, false))
	}

	return Resolution{
		Round:  m.round,
		Team:   owner,
		Result: result,
		Next:   next,
	}, nil
}

// TimerExpired reports the countdown reaching zero. The round stays active.
func (m *Machine) TimerExpired() {
	if m.state != models.RoundStateActive {
		return
	}
	m.status = models.Done(msgTimeUp)
}

// PreparePromptSubmission validates prompt text before it is sent to the pool.
// It returns the trimmed text to submit.
func (m *Machine) PreparePromptSubmission(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < m.minPrompt {
		m.saveStatus = models.Error(msgPromptTooShort)
		return "", fmt.Errorf("prompt shorter than %d characters: %w", m.minPrompt, models.ErrValidation)
	}

	m.saveStatus = models.Info(msgSavingPrompt)
	return trimmed, nil
}

// PromptSaved records a successful submission
func (m *Machine) PromptSaved(resp models.SubmitPromptResponse) {
	if resp.TotalPrompts != nil && *resp.TotalPrompts >= 0 {
		m.promptCount = *resp.TotalPrompts
	}
	m.saveStatus = models.Done(msgPromptSaved)
	m.status = models.Done(msgPromptAdded)
}

// PromptSaveFailed records a failed submission. Round state is not touched.
func (m *Machine) PromptSaveFailed(err error) {
	m.saveStatus = models.Error(saveFailureMessage(err))
}

func (m *Machine) awaiting(round int) bool {
	return m.state == models.RoundStateActive && m.promptPending && round == m.round
}
