package match

import (
	"math"

	"quizclash/internal/catalog"
)

// AdjustedCost computes the gold cost of a card for a team. The host's
// per-card multiplier (clamped to [0.5, 2.0]) converts to an additive
// delta over the base, then team cost modifiers (tariff, coupon) and any
// live inflation stack on top. The result never goes below zero, and
// standard cards always cost at least 1.
func (m *Match) AdjustedCost(card *catalog.Card, team *Team) int {
	now := m.now()
	base := float64(card.BaseGoldCost)
	delta := 0.0

	if mult, ok := m.rules.costMultipliers[card.ID]; ok {
		delta += base*clampMultiplier(mult) - base
	}

	if team != nil {
		if mod := team.Modifier(ModCostModifier, now); mod != nil {
			delta += float64(mod.Amount)
		}
	}

	if m.inflation != nil && now.Before(m.inflation.ExpiresAt) {
		delta += float64(m.inflation.Amount)
	}

	cost := int(math.Ceil(base + delta))
	if cost < 0 {
		cost = 0
	}
	if cost < 1 && card.Kind == catalog.KindStandard {
		cost = 1
	}
	return cost
}
