package match

import (
	"fmt"

	"quizclash/internal/catalog"
)

// Rules are the host-adjustable per-match card rules. They belong to one
// Match instance and reset with it.
type Rules struct {
	disabled        map[string]bool
	costMultipliers map[string]float64
}

func newRules() *Rules {
	return &Rules{
		disabled:        make(map[string]bool),
		costMultipliers: make(map[string]float64),
	}
}

func (r *Rules) reset() {
	r.disabled = make(map[string]bool)
	r.costMultipliers = make(map[string]float64)
}

// RulesView is the broadcast form of the rule set.
type RulesView struct {
	DisabledCards     []string           `json:"disabledCards"`
	GoldCostModifiers map[string]float64 `json:"goldCostModifiers"`
}

func (r *Rules) view() RulesView {
	disabled := make([]string, 0, len(r.disabled))
	for id := range r.disabled {
		disabled = append(disabled, id)
	}
	mods := make(map[string]float64, len(r.costMultipliers))
	for id, mult := range r.costMultipliers {
		mods[id] = mult
	}
	return RulesView{DisabledCards: disabled, GoldCostModifiers: mods}
}

// Rules returns a snapshot of the current rule set.
func (m *Match) Rules() RulesView {
	return m.rules.view()
}

// DisableCard bars a card from being cast this match.
func (m *Match) DisableCard(cardID string) error {
	if _, ok := m.catalog.Get(cardID); !ok {
		return fmt.Errorf("invalid card id: %s", cardID)
	}
	m.rules.disabled[cardID] = true
	m.broadcastRules()
	return nil
}

// EnableCard lifts a disable.
func (m *Match) EnableCard(cardID string) error {
	if _, ok := m.catalog.Get(cardID); !ok {
		return fmt.Errorf("invalid card id: %s", cardID)
	}
	delete(m.rules.disabled, cardID)
	m.broadcastRules()
	return nil
}

// SetCostModifier sets a per-card cost multiplier, clamped to [0.5, 2.0].
// Only standard cards can carry one.
func (m *Match) SetCostModifier(cardID string, multiplier float64) error {
	card, ok := m.catalog.Get(cardID)
	if !ok {
		return fmt.Errorf("invalid card id: %s", cardID)
	}
	if card.Kind != catalog.KindStandard {
		return fmt.Errorf("only standard cards can have cost modifiers")
	}
	m.rules.costMultipliers[cardID] = clampMultiplier(multiplier)
	m.broadcastRules()
	return nil
}

// ResetRules clears disables and cost multipliers.
func (m *Match) ResetRules() {
	m.rules.reset()
	m.broadcastRules()
}

func (m *Match) broadcastRules() {
	m.bc.Broadcast(EventRulesUpdate, m.rules.view())
}

func clampMultiplier(mult float64) float64 {
	if mult < 0.5 {
		return 0.5
	}
	if mult > 2.0 {
		return 2.0
	}
	return mult
}
