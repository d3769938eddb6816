package match

import (
	"time"

	"go.uber.org/zap"
)

// Sweep removes expired headline effects and lapsed per-team modifiers.
// The match loop calls it once a second; tests call it directly with a
// fake clock.
func (m *Match) Sweep(now time.Time) {
	for teamID, ef := range m.effects {
		if !now.Before(ef.ExpiresAt) {
			delete(m.effects, teamID)
			m.log.Debug("headline effect expired",
				zap.String("team", teamID),
				zap.String("card", ef.CardID))
		}
	}

	for _, id := range m.order {
		t := m.teams[id]
		for kind, mod := range t.mods {
			if !mod.expired(now) {
				continue
			}
			delete(t.mods, kind)
			if kind == ModPanelHidden {
				m.bc.BroadcastToTeam(t.ID, EventPanelVisible, struct{}{})
			}
		}
	}

	if m.inflation != nil && !now.Before(m.inflation.ExpiresAt) {
		m.inflation = nil
	}
}
