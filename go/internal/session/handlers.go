package session

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/events"
	"github.com/mcdev12/teamquiz/go/internal/models"
)

func (s *Session) handleAddTeam(msg AddTeam) error {
	team, err := s.machine.AddTeam(msg.Name)
	s.changed()
	if err != nil {
		log.Info().Err(err).Str("name", msg.Name).Msg("add team rejected")
		return err
	}

	teams := s.machine.Teams()
	s.emit(events.EventTypeTeamAdded, events.TeamAddedPayload{
		TeamID:   team.ID,
		TeamName: team.Name,
		Index:    len(teams) - 1,
	})
	log.Info().Str("team_id", team.ID).Str("team", team.Name).Msg("team added")
	return nil
}

func (s *Session) handleRemoveTeam(msg RemoveTeam) error {
	team, ok, err := s.machine.RemoveTeam(msg.Index)
	if err != nil {
		s.changed()
		log.Info().Err(err).Int("index", msg.Index).Msg("remove team rejected")
		return err
	}
	if !ok {
		log.Debug().Int("index", msg.Index).Msg("remove team ignored, index out of range")
		return nil
	}

	s.changed()
	s.emit(events.EventTypeTeamRemoved, events.TeamRemovedPayload{
		TeamID:   team.ID,
		TeamName: team.Name,
		Index:    msg.Index,
		Cursor:   s.machine.Cursor(),
	})
	log.Info().Str("team_id", team.ID).Str("team", team.Name).Int("cursor", s.machine.Cursor()).Msg("team removed")
	return nil
}

func (s *Session) handleRequestPrompt() error {
	ticket, err := s.machine.RequestPrompt()
	s.changed()
	if err != nil {
		log.Info().Err(err).Str("state", string(s.machine.State())).Msg("prompt request rejected")
		return err
	}

	s.emit(events.EventTypeRoundStarted, events.RoundStartedPayload{
		Round:     ticket.Round,
		TeamID:    ticket.Team.ID,
		TeamName:  ticket.Team.Name,
		StartedAt: s.now(),
	})
	log.Info().Int("round", ticket.Round).Str("team", ticket.Team.Name).Msg("round started, fetching prompt")

	go func(roundNo int) {
		prompt, err := s.gateway.FetchPrompt(s.ctx)
		s.post(promptFetched{round: roundNo, prompt: prompt, err: err})
	}(ticket.Round)
	return nil
}

func (s *Session) handlePromptFetched(msg promptFetched) {
	owner, _ := s.machine.Owner()

	if msg.err != nil {
		if !s.machine.FailPrompt(msg.round) {
			log.Debug().Int("round", msg.round).Msg("stale prompt failure dropped")
			return
		}
		s.changed()
		s.emit(events.EventTypePromptFailed, events.PromptFailedPayload{
			Round:  msg.round,
			TeamID: owner.ID,
			Reason: msg.err.Error(),
		})
		log.Warn().Err(msg.err).Int("round", msg.round).Msg("prompt fetch failed, round reverted")
		return
	}

	if !s.machine.DeliverPrompt(msg.round, msg.prompt) {
		log.Debug().Int("round", msg.round).Msg("stale prompt dropped")
		return
	}
	s.changed()
	s.emit(events.EventTypePromptDelivered, events.PromptDeliveredPayload{
		Round:        msg.round,
		TeamID:       owner.ID,
		Prompt:       msg.prompt.Text,
		TimerSeconds: s.countdown.Remaining(),
		TotalPrompts: s.machine.PromptCount(),
	})
	log.Info().
		Int("round", msg.round).
		Str("team", owner.Name).
		Int("timer_sec", s.countdown.Remaining()).
		Msg("prompt delivered")
}

func (s *Session) handleReportResult(msg ReportResult) error {
	res, err := s.machine.ReportResult(msg.Result)
	if err != nil {
		// No round to resolve; nothing is shown to the user.
		log.Debug().Err(err).Str("result", string(msg.Result)).Msg("result ignored")
		return err
	}

	s.changed()
	s.emit(events.EventTypeRoundResolved, events.RoundResolvedPayload{
		Round:        res.Round,
		TeamID:       res.Team.ID,
		TeamName:     res.Team.Name,
		Result:       string(res.Result),
		Score:        res.Team.Score,
		NextTeamID:   res.Next.ID,
		NextTeamName: res.Next.Name,
		ResolvedAt:   s.now(),
	})
	log.Info().
		Int("round", res.Round).
		Str("team", res.Team.Name).
		Str("result", string(res.Result)).
		Int("score", res.Team.Score).
		Str("next", res.Next.Name).
		Msg("round resolved")
	return nil
}

func (s *Session) handleTimerTick(msg timerTick) {
	remaining, expired, ok := s.countdown.Apply(msg.tick)
	if !ok {
		return
	}

	roundNo := s.machine.Round()
	if expired {
		s.machine.TimerExpired()
		owner, _ := s.machine.Owner()
		s.changed()
		s.emit(events.EventTypeTimeUp, events.TimeUpPayload{Round: roundNo, TeamID: owner.ID})
		log.Info().Int("round", roundNo).Msg("time is up")
		return
	}

	s.changed()
	s.emit(events.EventTypeTimerTick, events.TimerTickPayload{Round: roundNo, TimeRemainingSec: remaining})
}

func (s *Session) handleSubmitPrompt(msg SubmitPrompt) error {
	text, err := s.machine.PreparePromptSubmission(msg.Text)
	s.changed()
	if err != nil {
		log.Info().Err(err).Msg("prompt submission rejected")
		return err
	}

	go func() {
		resp, err := s.gateway.SubmitPrompt(s.ctx, text)
		s.post(promptSaved{text: text, resp: resp, err: err})
	}()
	return nil
}

func (s *Session) handlePromptSaved(msg promptSaved) {
	if msg.err != nil {
		s.machine.PromptSaveFailed(msg.err)
		s.changed()
		if errors.Is(msg.err, models.ErrDuplicate) {
			log.Info().Str("prompt", msg.text).Msg("prompt already exists")
		} else {
			log.Warn().Err(msg.err).Msg("prompt save failed")
		}
		return
	}

	s.machine.PromptSaved(msg.resp)
	s.changed()
	s.emit(events.EventTypePromptSubmitted, events.PromptSubmittedPayload{
		Prompt:       msg.text,
		TotalPrompts: s.machine.PromptCount(),
	})
	log.Info().Str("prompt", msg.text).Int("total_prompts", s.machine.PromptCount()).Msg("prompt saved")
}
