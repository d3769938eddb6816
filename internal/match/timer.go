package match

import (
	"time"

	"go.uber.org/zap"
)

// addTime credits seconds to the shared countdown.
func (m *Match) addTime(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	m.timeRemaining += float64(seconds)
	m.broadcastTimer()
}

// subtractTime debits seconds from the shared countdown on behalf of an
// attack against the given team. Timer protection swallows the hit
// entirely; insurance refunds up to its stored seconds and disappears once
// drained.
func (m *Match) subtractTime(target *Team, seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	now := m.now()

	if target != nil && target.Modifier(ModTimerProtect, now) != nil {
		m.log.Debug("time loss blocked by protection", zap.String("team", target.ID))
		return
	}

	if target != nil {
		if ins := target.Modifier(ModTimerInsurance, now); ins != nil {
			refunded := ins.Seconds
			if refunded > seconds {
				refunded = seconds
			}
			ins.Seconds -= refunded
			seconds -= refunded
			if ins.Seconds <= 0 {
				target.ClearModifier(ModTimerInsurance)
			}
			m.log.Debug("insurance absorbed time loss",
				zap.String("team", target.ID),
				zap.Int("refunded", refunded))
		}
	}

	m.timeRemaining -= float64(seconds)
	if m.timeRemaining < 0 {
		m.timeRemaining = 0
	}
	m.broadcastTimer()
}

// tickTimer advances the countdown by one tick. Pause and start-delay
// records freeze it; rate multipliers speed it up; the overtime clause
// rescues a team exactly once when it would hit zero.
func (m *Match) tickTimer() {
	if !m.timerEnabled || !m.roundActive {
		return
	}
	now := m.now()

	for _, id := range m.order {
		t := m.teams[id]
		if t.Modifier(ModTimerPause, now) != nil || t.Modifier(ModTimerStartDelay, now) != nil {
			return
		}
	}

	rate := 1.0
	for _, id := range m.order {
		if mod := m.teams[id].Modifier(ModTimerRate, now); mod != nil && mod.Multiplier > rate {
			rate = mod.Multiplier
		}
	}

	m.timeRemaining -= rate
	if m.timeRemaining <= 0 {
		if holder := m.overtimeHolder(now); holder != nil {
			safety := holder.Modifier(ModOvertimeClause, now).Seconds
			holder.ClearModifier(ModOvertimeClause)
			m.timeRemaining = float64(safety)
			m.log.Info("overtime clause triggered",
				zap.String("team", holder.ID),
				zap.Int("safetySeconds", safety))
		} else {
			m.timeRemaining = 0
			m.broadcastTimer()
			m.EndRound()
			return
		}
	}
	m.broadcastTimer()
}

func (m *Match) overtimeHolder(now time.Time) *Team {
	for _, id := range m.order {
		if m.teams[id].Modifier(ModOvertimeClause, now) != nil {
			return m.teams[id]
		}
	}
	return nil
}

// Timer effect handlers.

func handleTimerAdd(m *Match, ef *ActiveEffect) {
	m.addTime(ef.Params.Seconds)
}

func handleTimerSubtract(m *Match, ef *ActiveEffect) {
	m.subtractTime(m.teams[ef.TargetTeamID], ef.Params.Seconds)
}

// handleTimerTempoSwing checks the target's shield itself: a blocked swing
// still credits the caster's half instead of fizzling outright.
func handleTimerTempoSwing(m *Match, ef *ActiveEffect) {
	now := m.now()
	target := m.teams[ef.TargetTeamID]
	if target != nil && ef.TargetTeamID != ef.CasterTeamID {
		if shield := target.Modifier(ModShield, now); shield != nil {
			target.ClearModifier(ModShield)
			m.refundOnBlock(ef.CasterTeamID)
			m.addTime(ef.Params.SelfAddSeconds)
			m.log.Debug("tempo swing blocked by shield, credited caster",
				zap.String("target", ef.TargetTeamID))
			return
		}
	}
	m.subtractTime(target, ef.Params.OppSubSeconds)
}

func handleTimerAddConditional(m *Match, ef *ActiveEffect) {
	add := ef.Params.ElseAdd
	if int(m.timeRemaining) < ef.Params.ThresholdBelowSeconds {
		add = ef.Params.IfBelowAdd
	}
	m.addTime(add)
}

func handleTimerAddIfSuggestersLt(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	if len(target.Suggesters) < ef.Params.SuggestersLessThan {
		m.addTime(ef.Params.AddSeconds)
	}
}

func handleTimerPause(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModTimerPause,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
}

func handleTimerProtect(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModTimerProtect,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
}

func handleTimerRateMult(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.Multiplier <= 0 || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:       ModTimerRate,
		Multiplier: ef.Params.Multiplier,
		ExpiresAt:  m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
}

func handleTimerLoan(m *Match, ef *ActiveEffect) {
	m.addTime(ef.Params.GainSeconds)
	targetID := ef.TargetTeamID
	repay := ef.Params.RepaySeconds
	m.schedule(time.Duration(ef.Params.RepayAfterSeconds)*time.Second, func(m *Match) {
		m.subtractTime(m.teams[targetID], repay)
	})
}

func handleTimerOvertimeClause(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	target.SetModifier(&Modifier{
		Kind:    ModOvertimeClause,
		Seconds: ef.Params.SafetySeconds,
	})
}

func handleTimerStartDelay(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DelaySeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModTimerStartDelay,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DelaySeconds) * time.Second),
	})
}

func handleTimerInsurance(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.InsuredSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:    ModTimerInsurance,
		Seconds: ef.Params.InsuredSeconds,
	})
}
