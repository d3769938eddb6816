package match

import (
	"time"

	"go.uber.org/zap"
)

// swapWriter exchanges the writer with the suggester at the given index.
// A live writer lock makes every swap a no-op.
func (m *Match) swapWriter(team *Team, suggesterIdx int) bool {
	now := m.now()
	if team.Modifier(ModWriterLock, now) != nil {
		m.log.Debug("writer swap blocked by lock", zap.String("team", team.ID))
		return false
	}
	if suggesterIdx < 0 || suggesterIdx >= len(team.Suggesters) {
		return false
	}
	oldWriter := team.Writer
	team.Writer = team.Suggesters[suggesterIdx]
	team.Suggesters[suggesterIdx] = oldWriter
	// The new writer's player id is unknown here; reconnect healing
	// re-learns it from the session layer.
	team.WriterPlayerID = ""

	m.bc.BroadcastToTeam(team.ID, EventWriterRotated, map[string]string{
		"teamId":    team.ID,
		"newWriter": team.Writer,
		"oldWriter": oldWriter,
	})
	m.bc.Broadcast(EventTeamUpdate, m.TeamViews())
	return true
}

// swapWithRandomSuggester picks a uniformly random suggester to take over
// writing.
func (m *Match) swapWithRandomSuggester(team *Team) bool {
	if len(team.Suggesters) == 0 {
		m.log.Debug("writer swap skipped: no suggesters", zap.String("team", team.ID))
		return false
	}
	return m.swapWriter(team, m.rng.Intn(len(team.Suggesters)))
}

// swapWithSession promotes a specific session to writer.
func (m *Match) swapWithSession(team *Team, sessionID string) bool {
	for i, sid := range team.Suggesters {
		if sid == sessionID {
			return m.swapWriter(team, i)
		}
	}
	return false
}

// Writer/role effect handlers.

func handleWriterSwap(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	originalWriter := target.Writer
	if !m.swapWithRandomSuggester(target) {
		return
	}
	if ef.Params.Revert && ef.Params.DurationSeconds > 0 {
		targetID := target.ID
		m.schedule(time.Duration(ef.Params.DurationSeconds)*time.Second, func(m *Match) {
			if t, ok := m.teams[targetID]; ok {
				m.swapWithSession(t, originalWriter)
			}
		})
	}
}

func handleWriterDoubleSwap(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	m.swapWithRandomSuggester(target)

	after := ef.Params.SecondSwapAfterSeconds
	if after <= 0 {
		after = 8
	}
	targetID := target.ID
	m.schedule(time.Duration(after)*time.Second, func(m *Match) {
		if t, ok := m.teams[targetID]; ok {
			m.swapWithRandomSuggester(t)
		}
	})
}

func handleWriterRoulette(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	m.swapWithRandomSuggester(target)
}

func handleWriterChoose(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || target.Writer == "" {
		return
	}
	target.pendingWriterChoice = true
	m.bc.Send(target.Writer, EventWriterChoiceRequest, map[string]any{
		"teamId":     target.ID,
		"suggesters": append([]string(nil), target.Suggesters...),
	})
}

func handleWriterLock(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModWriterLock,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
}

func handleWriterScheduledSwap(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.SwapAfterSeconds <= 0 {
		return
	}
	targetID := target.ID
	m.schedule(time.Duration(ef.Params.SwapAfterSeconds)*time.Second, func(m *Match) {
		if t, ok := m.teams[targetID]; ok {
			m.swapWithRandomSuggester(t)
		}
	})
	m.bc.BroadcastToTeam(target.ID, EventSwapScheduled, map[string]int{
		"swapAfterSeconds": ef.Params.SwapAfterSeconds,
	})
}

func handleSuggesterHighlight(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || target.Writer == "" {
		return
	}
	seconds := ef.Params.DurationSeconds
	if seconds <= 0 {
		seconds = 15
	}
	target.pendingHighlightSeconds = seconds
	m.bc.Send(target.Writer, EventHighlightRequest, map[string]any{
		"teamId":          target.ID,
		"suggesters":      append([]string(nil), target.Suggesters...),
		"durationSeconds": seconds,
	})
}

// Choice answers.

// HandleWriterChoice applies the writer's pick from a WRITER_CHOOSE
// request.
func (m *Match) HandleWriterChoice(actor Actor, suggesterSessionID string) error {
	team := m.teamForActor(actor)
	if team == nil || team.Writer != actor.SessionID {
		return castErrorf("Only the writer can choose")
	}
	if !team.pendingWriterChoice {
		return castErrorf("No writer choice pending")
	}
	team.pendingWriterChoice = false
	if !m.swapWithSession(team, suggesterSessionID) {
		return castErrorf("Invalid suggester")
	}
	return nil
}

// HandleHighlightChoice applies the writer's pick from a highlight
// request.
func (m *Match) HandleHighlightChoice(actor Actor, suggesterSessionID string) error {
	team := m.teamForActor(actor)
	if team == nil || team.Writer != actor.SessionID {
		return castErrorf("Only the writer can choose")
	}
	if team.pendingHighlightSeconds <= 0 {
		return castErrorf("No highlight choice pending")
	}
	found := false
	for _, sid := range team.Suggesters {
		if sid == suggesterSessionID {
			found = true
			break
		}
	}
	if !found {
		return castErrorf("Invalid suggester")
	}
	team.SetModifier(&Modifier{
		Kind:        ModHighlight,
		HighlightID: suggesterSessionID,
		ExpiresAt:   m.now().Add(time.Duration(team.pendingHighlightSeconds) * time.Second),
	})
	team.pendingHighlightSeconds = 0
	return nil
}
