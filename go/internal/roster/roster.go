package roster

import (
	"fmt"
	"strings"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

// Roster is the ordered set of teams in a session together with the turn cursor.
// Names are unique ignoring case, and ids are never reused after removal.
type Roster struct {
	teams  []models.Team
	cursor int
	nextID int
}

// New creates an empty roster
func New() *Roster {
	return &Roster{}
}

// Add trims the name and appends a new team with a fresh id and score 0
func (r *Roster) Add(name string) (models.Team, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.Team{}, fmt.Errorf("team name is empty: %w", models.ErrValidation)
	}

	for _, t := range r.teams {
		if strings.EqualFold(t.Name, trimmed) {
			return models.Team{}, fmt.Errorf("team %q: %w", trimmed, models.ErrDuplicate)
		}
	}

	team := models.Team{
		ID:   fmt.Sprintf("team-%d", r.nextID),
		Name: trimmed,
	}
	r.nextID++
	r.teams = append(r.teams, team)

	if len(r.teams) == 1 {
		r.cursor = 0
	}
	return team, nil
}

// Remove deletes the team at index. It reports false and leaves the roster
// untouched when index is out of bounds.
func (r *Roster) Remove(index int) (models.Team, bool) {
	if index < 0 || index >= len(r.teams) {
		return models.Team{}, false
	}

	removed := r.teams[index]
	r.teams = append(r.teams[:index:index], r.teams[index+1:]...)
	r.onRemoved()
	return removed, true
}

// Len returns the number of teams
func (r *Roster) Len() int {
	return len(r.teams)
}

// Get returns the team at index
func (r *Roster) Get(index int) (models.Team, bool) {
	if index < 0 || index >= len(r.teams) {
		return models.Team{}, false
	}
	return r.teams[index], true
}

// Teams returns a copy of the teams in roster order
func (r *Roster) Teams() []models.Team {
	out := make([]models.Team, len(r.teams))
	copy(out, r.teams)
	return out
}

// IncrementScore adds one point to the team at index.
// Only round resolution calls this.
func (r *Roster) IncrementScore(index int) (models.Team, bool) {
	if index < 0 || index >= len(r.teams) {
		return models.Team{}, false
	}
	r.teams[index].Score++
	return r.teams[index], true
}
