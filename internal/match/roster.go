package match

import "go.uber.org/zap"

// JoinTeam attaches a session to a team. The first player to join becomes
// the writer; everyone after that joins as a suggester. A session already
// on the team keeps its role.
func (m *Match) JoinTeam(actor Actor, teamID string) error {
	team, ok := m.teams[teamID]
	if !ok {
		m.sendError(actor, "Team not found")
		return castErrorf("Team not found")
	}
	if actor.Role != RolePlayer {
		return nil
	}
	if team.HasMember(actor.SessionID) {
		return nil
	}

	m.LeaveSession(actor.SessionID)
	m.warmUnlocks(actor.PlayerID)

	if team.Writer == "" {
		team.Writer = actor.SessionID
		team.WriterPlayerID = actor.PlayerID
	} else {
		team.Suggesters = append(team.Suggesters, actor.SessionID)
	}

	m.bc.Broadcast(EventTeamUpdate, m.TeamViews())
	m.log.Info("session joined team",
		zap.String("session", actor.SessionID),
		zap.String("team", team.ID))
	return nil
}

// LeaveSession detaches a session from whatever team it belongs to. A
// departing writer is replaced by the first suggester.
func (m *Match) LeaveSession(sessionID string) {
	for _, id := range m.order {
		t := m.teams[id]
		if t.Writer == sessionID {
			t.Writer = ""
			t.WriterPlayerID = ""
			if len(t.Suggesters) > 0 {
				t.Writer = t.Suggesters[0]
				t.Suggesters = t.Suggesters[1:]
			}
			m.bc.Broadcast(EventTeamUpdate, m.TeamViews())
			return
		}
		for i, s := range t.Suggesters {
			if s == sessionID {
				t.Suggesters = append(t.Suggesters[:i], t.Suggesters[i+1:]...)
				m.bc.Broadcast(EventTeamUpdate, m.TeamViews())
				return
			}
		}
	}
}
