package match

import (
	"time"

	"go.uber.org/zap"
)

// Gold effect handlers. Team balances are mutated directly; the broadcast
// gold map is always re-derived afterwards.

func handleGoldGain(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	amount := ef.Params.Amount
	if amount < 0 {
		amount = 0
	}
	target.Gold += amount
	m.broadcastGold()
}

// handleGoldSteal transfers up to the requested amount, capped at what the
// target actually holds. Stealing from an empty purse is a no-op.
func handleGoldSteal(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	caster := m.teams[ef.CasterTeamID]
	if target == nil || caster == nil {
		return
	}
	amount := ef.Params.Amount
	if amount > target.Gold {
		amount = target.Gold
	}
	if amount <= 0 {
		m.log.Debug("gold steal found nothing to take", zap.String("target", target.ID))
		return
	}
	target.Gold -= amount
	caster.Gold += amount
	m.broadcastGold()
}

func handleGoldCostMod(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModCostModifier,
		Amount:    ef.Params.Modifier,
		Remaining: ef.Params.CardCount,
	})
}

func handleGoldCostDiscount(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModCostModifier,
		Amount:    -ef.Params.Discount,
		Remaining: ef.Params.CardCount,
	})
}

func handleGoldInterest(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.Rate <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:    ModInterest,
		Rate:    ef.Params.Rate,
		MaxGain: ef.Params.MaxGain,
	})
}

func handleGoldDelayedGain(m *Match, ef *ActiveEffect) {
	targetID := ef.TargetTeamID
	for _, gain := range ef.Params.Gains {
		amount := gain.Amount
		m.schedule(time.Duration(gain.AfterSeconds)*time.Second, func(m *Match) {
			target, ok := m.teams[targetID]
			if !ok {
				return
			}
			target.Gold += amount
			m.broadcastGold()
		})
	}
}

func handleGoldRefundOnBlock(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModRefundOnBlock,
		Remaining: ef.Params.CardCount,
	})
}

// handleGoldInflation raises everyone's costs. The record is match-wide,
// not per-team.
func handleGoldInflation(m *Match, ef *ActiveEffect) {
	if ef.Params.DurationSeconds <= 0 {
		return
	}
	m.inflation = &inflationRecord{
		Amount:    ef.Params.Modifier,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	}
}
