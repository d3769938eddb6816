package match

import "go.uber.org/zap"

// StartRound opens a new round: fresh countdown, cleared per-round usage.
func (m *Match) StartRound() {
	m.roundNumber++
	m.roundActive = true
	m.timerEnabled = true
	m.timeRemaining = float64(m.roundSeconds)
	for _, id := range m.order {
		m.teams[id].roundUsage = make(map[string]int)
	}
	m.bc.Broadcast(EventRoundStarted, map[string]int{"round": m.roundNumber})
	m.broadcastTimer()
	m.log.Info("round started", zap.Int("round", m.roundNumber))
}

// EndRound closes the round: interest pays out, headline effects clear,
// and pending deferred tasks are fenced off so nothing scheduled during
// the round fires into the next one.
func (m *Match) EndRound() {
	if !m.roundActive {
		return
	}
	m.roundActive = false
	m.timerEnabled = false

	paid := false
	now := m.now()
	for _, id := range m.order {
		t := m.teams[id]
		interest := t.Modifier(ModInterest, now)
		if interest == nil || interest.Rate <= 0 {
			continue
		}
		gain := t.Gold / interest.Rate
		if gain > interest.MaxGain {
			gain = interest.MaxGain
		}
		if gain > 0 {
			t.Gold += gain
			paid = true
			m.log.Info("interest paid",
				zap.String("team", t.ID),
				zap.Int("gain", gain))
		}
		t.ClearModifier(ModInterest)
	}
	if paid {
		m.broadcastGold()
	}

	m.effects = make(map[string]*ActiveEffect)
	for _, id := range m.order {
		m.teams[id].ClearModifier(ModOvertimeClause)
	}
	m.bumpGeneration()

	m.bc.Broadcast(EventRoundEnded, map[string]int{"round": m.roundNumber})
	m.broadcastTimer()
	m.log.Info("round ended", zap.Int("round", m.roundNumber))
}

// ResetMatch returns the whole match to its initial state: rules, gold,
// modifiers, effects, round counter.
func (m *Match) ResetMatch() {
	m.rules.reset()
	m.effects = make(map[string]*ActiveEffect)
	m.inflation = nil
	m.roundNumber = 0
	m.roundActive = false
	m.timerEnabled = false
	m.timeRemaining = float64(m.roundSeconds)
	m.bumpGeneration()

	for _, id := range m.order {
		t := m.teams[id]
		t.Gold = m.startingGold
		t.clearModifiers()
		t.Suggestions = nil
		t.LastCastCard = ""
		t.roundUsage = make(map[string]int)
		t.matchUsage = make(map[string]int)
		t.pendingWriterChoice = false
		t.pendingHighlightSeconds = 0
		t.pendingDeckMove = false
		t.pendingSlotSwap = false
	}

	m.bc.Broadcast(EventMatchReset, struct{}{})
	m.broadcastRules()
	m.broadcastGold()
	m.broadcastTimer()
	m.log.Info("match reset")
}
