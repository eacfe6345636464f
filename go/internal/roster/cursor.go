package roster

import "github.com/mcdev12/teamquiz/go/internal/models"

// Cursor returns the index of the team whose turn it is. It is 0 for an empty roster.
func (r *Roster) Cursor() int {
	return r.cursor
}

// Current returns the team under the cursor
func (r *Roster) Current() (models.Team, bool) {
	return r.Get(r.cursor)
}

// Advance moves the cursor to the next team, wrapping at the end
func (r *Roster) Advance() int {
	if len(r.teams) == 0 {
		r.cursor = 0
		return r.cursor
	}
	r.cursor = (r.cursor + 1) % len(r.teams)
	return r.cursor
}

// onRemoved keeps the cursor valid after a removal. The index is kept and
// only reset to 0 once it falls outside the shortened roster.
func (r *Roster) onRemoved() {
	if r.cursor >= len(r.teams) {
		r.cursor = 0
	}
}
