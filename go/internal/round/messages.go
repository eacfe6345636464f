package round

import (
	"errors"
	"fmt"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

const (
	msgWelcome         = "Ready? Add your teams first."
	msgNoTeamsYet      = "No teams yet"
	msgTeamNameEmpty   = "Team name must not be empty."
	msgTeamNameExists  = "Team name already exists."
	msgFinishRound     = "Finish the current round before removing teams."
	msgAddTeamFirst    = "Add at least one team first."
	msgRoundRunning    = "This round is still running. Record the result first."
	msgFetchFailed     = "Oops, the prompt could not be loaded. Try again."
	msgTimeUp          = "Time's up! Compare your answers."
	msgPromptTooShort  = "Prompt is too short."
	msgSavingPrompt    = "Saving prompt..."
	msgPromptSaved     = "Saved! Thanks for your contribution."
	msgPromptAdded     = "A new prompt joined the pool."
	msgPromptExists    = "Prompt already exists."
	msgPromptSaveError = "Prompt could not be saved."
)

func teamReady(name string) string   { return fmt.Sprintf("Team %s is ready!", name) }
func teamRemoved(name string) string { return fmt.Sprintf("Team %s left the game.", name) }
func loadingFor(name string) string  { return fmt.Sprintf("Loading prompt for %s...", name) }
func teamsTurn(name string) string   { return fmt.Sprintf("Team %s, you're up.", name) }

func resolvedMessage(owner, next string, success bool) string {
	if success {
		return fmt.Sprintf("Team %s scores a point! Next up: %s.", owner, next)
	}
	return fmt.Sprintf("No match for %s this time. Next up: %s.", owner, next)
}

func saveFailureMessage(err error) string {
	if errors.Is(err, models.ErrDuplicate) {
		return msgPromptExists
	}
	return msgPromptSaveError
}
