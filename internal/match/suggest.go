package match

import (
	"time"

	"go.uber.org/zap"
)

// SuggestionRequest is the inbound suggestion command.
type SuggestionRequest struct {
	TeamID string `json:"teamId,omitempty"` // required only for spectators
	Text   string `json:"text"`
}

// HandleSuggestion routes a suggester's message to their writer, honoring
// the team's comms modifiers: mute drops it, a char limit rejects it, a
// delay holds delivery, and a priority channel filters out everyone but
// the top suggesters.
func (m *Match) HandleSuggestion(actor Actor, req SuggestionRequest) error {
	now := m.now()
	team := m.teamForActor(actor)
	if team == nil {
		// Spectators may suggest only while a team has bench coaching on.
		t, ok := m.teams[req.TeamID]
		if !ok || t.Modifier(ModSpectatorSuggest, now) == nil {
			return castErrorf("You are not in a team")
		}
		team = t
	}

	if team.Modifier(ModSuggestMute, now) != nil {
		m.log.Debug("suggestion dropped: writer muted", zap.String("team", team.ID))
		return nil
	}

	if lim := team.Modifier(ModCharLimit, now); lim != nil && len(req.Text) > lim.MaxChars {
		cerr := castErrorf("Suggestions are limited to %d characters right now", lim.MaxChars)
		m.sendError(actor, cerr.Message)
		return cerr
	}

	s := Suggestion{FromSessionID: actor.SessionID, Text: req.Text, At: now}
	if hl := team.Modifier(ModHighlight, now); hl != nil && hl.HighlightID == actor.SessionID {
		s.Highlighted = true
	}

	if delay := team.Modifier(ModSuggestDelay, now); delay != nil {
		teamID := team.ID
		m.schedule(time.Duration(delay.Seconds)*time.Second, func(m *Match) {
			if t, ok := m.teams[teamID]; ok {
				m.deliverSuggestion(t, s)
			}
		})
		return nil
	}

	m.deliverSuggestion(team, s)
	return nil
}

func (m *Match) deliverSuggestion(team *Team, s Suggestion) {
	now := m.now()
	team.Suggestions = append(team.Suggestions, s)

	// A priority channel shows the writer only the first topCount
	// suggesters' messages; everyone else's still queue silently.
	if pri := team.Modifier(ModPriorityChannel, now); pri != nil {
		if !m.isTopSuggester(team, s.FromSessionID, pri.TopCount) {
			return
		}
	}

	if team.Writer != "" {
		m.bc.Send(team.Writer, EventSuggestion, s)
	}
}

func (m *Match) isTopSuggester(team *Team, sessionID string, topCount int) bool {
	for i, sid := range team.Suggesters {
		if i >= topCount {
			return false
		}
		if sid == sessionID {
			return true
		}
	}
	return false
}

// Suggestion effect handlers.

func handleSuggestionMuteReceive(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.SetModifier(&Modifier{Kind: ModSuggestMute, ExpiresAt: ef.ExpiresAt})
}

func handleSuggestionDelay(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DelaySeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModSuggestDelay,
		Seconds:   ef.Params.DelaySeconds,
		ExpiresAt: ef.ExpiresAt,
	})
}

func handleSuggestPanelHide(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModPanelHidden,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
	m.bc.BroadcastToTeam(target.ID, EventPanelHidden, struct{}{})
}

func handleSuggestPriorityChannel(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.TopCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModPriorityChannel,
		TopCount:  ef.Params.TopCount,
		ExpiresAt: ef.ExpiresAt,
	})
}

func handleSuggestQueueClear(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.Suggestions = nil
	m.bc.BroadcastToTeam(target.ID, EventQueueCleared, struct{}{})
}

func handleSuggestBroadcastMode(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.SetModifier(&Modifier{Kind: ModBroadcastMode, ExpiresAt: ef.ExpiresAt})
}

func handleSuggestPingMute(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.SetModifier(&Modifier{Kind: ModPingsMuted, ExpiresAt: ef.ExpiresAt})
}

func handleSuggestCharLimit(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.MaxChars <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModCharLimit,
		MaxChars:  ef.Params.MaxChars,
		ExpiresAt: ef.ExpiresAt,
	})
}

func handleSuggesterSpectatorEnable(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.SetModifier(&Modifier{Kind: ModSpectatorSuggest, ExpiresAt: ef.ExpiresAt})
}
