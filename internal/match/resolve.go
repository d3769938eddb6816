package match

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizclash/internal/catalog"
)

// castOutcome records how a cast resolved after the defensive chain.
type castOutcome struct {
	targetID  string
	blocked   bool
	reflected bool
}

// createEffect runs the defensive interaction chain, stores the headline
// effect on the final target, and dispatches the handler.
func (m *Match) createEffect(card *catalog.Card, casterID, targetID string) castOutcome {
	now := m.now()
	finalCaster, finalTarget, blocked, reflected :=
		m.resolveInteractions(card.Effect.Type, casterID, targetID)

	if blocked {
		m.refundOnBlock(casterID)
		return castOutcome{targetID: finalTarget, blocked: true}
	}

	ef := &ActiveEffect{
		ID:           uuid.NewString(),
		CardID:       card.ID,
		Type:         card.Effect.Type,
		Params:       card.Effect,
		CasterTeamID: finalCaster,
		TargetTeamID: finalTarget,
		CastAt:       now,
	}
	if d := card.Effect.DurationSeconds; d > 0 {
		ef.ExpiresAt = now.Add(time.Duration(d) * time.Second)
	} else {
		ef.ExpiresAt = now.Add(defaultEffectDuration)
	}

	// A newer cast replaces the target's headline effect.
	ef.replaced = m.effects[finalTarget]
	m.effects[finalTarget] = ef

	m.dispatch(ef)
	return castOutcome{targetID: finalTarget, reflected: reflected}
}

// resolveInteractions walks the fixed defensive chain: decoy, then
// immunity, then reflect, then shield. Only hostile casts (resolved target
// differs from the caster's team) enter the chain. Each consuming step
// spends exactly one charge.
func (m *Match) resolveInteractions(effectType catalog.EffectType, casterID, targetID string) (string, string, bool, bool) {
	if casterID == targetID {
		return casterID, targetID, false, false
	}
	now := m.now()
	target := m.teams[targetID]
	if target == nil {
		return casterID, targetID, false, false
	}

	if target.consume(ModDecoy, now) {
		m.log.Debug("effect absorbed by decoy", zap.String("target", targetID))
		return casterID, targetID, true, false
	}

	if imm := target.Modifier(ModImmunity, now); imm != nil && imm.Blocks[effectType] {
		m.log.Debug("effect blocked by immunity",
			zap.String("target", targetID),
			zap.String("type", string(effectType)))
		return casterID, targetID, true, false
	}

	reflected := false
	if reflectable[effectType] && target.consume(ModReflect, now) {
		casterID, targetID = targetID, casterID
		target = m.teams[targetID]
		reflected = true
		m.log.Debug("effect reflected", zap.String("newTarget", targetID))
	}

	if shieldBlockable[effectType] && target != nil {
		if shield := target.Modifier(ModShield, now); shield != nil {
			target.ClearModifier(ModShield)
			m.log.Debug("effect blocked by shield",
				zap.String("target", targetID),
				zap.String("type", string(effectType)))
			return casterID, targetID, true, reflected
		}
	}

	return casterID, targetID, false, reflected
}

// refundOnBlock returns the caster's last cast cost when their refund
// policy is live. One charge per blocked cast.
func (m *Match) refundOnBlock(casterID string) bool {
	team := m.teams[casterID]
	if team == nil {
		return false
	}
	now := m.now()
	refund := team.Modifier(ModRefundOnBlock, now)
	if refund == nil || refund.Remaining <= 0 {
		return false
	}
	team.Gold += refund.LastCost
	refund.Remaining--
	if refund.Remaining <= 0 {
		team.ClearModifier(ModRefundOnBlock)
	}
	m.broadcastGold()
	m.log.Debug("blocked cast refunded",
		zap.String("team", casterID),
		zap.Int("amount", refund.LastCost))
	return true
}

// reflectable lists hostile effect types a mirror sends back at the caster.
var reflectable = map[catalog.EffectType]bool{
	catalog.EffectTimerSubtract:         true,
	catalog.EffectSuggestionDelay:       true,
	catalog.EffectSuggestionMuteReceive: true,
	catalog.EffectScreenShake:           true,
	catalog.EffectScreenBlur:            true,
	catalog.EffectScreenDistort:         true,
	catalog.EffectMicroDistraction:      true,
	catalog.EffectSuggestPanelHide:      true,
	catalog.EffectSuggestCharLimit:      true,
	catalog.EffectCastLockout:           true,
	catalog.EffectGoldSteal:             true,
	catalog.EffectGoldCostMod:           true,
}

// shieldBlockable lists hostile effect types a shield absorbs. Tempo swings
// handle their own shield check so the blocked half can rebound to the
// caster.
var shieldBlockable = map[catalog.EffectType]bool{
	catalog.EffectTimerSubtract:         true,
	catalog.EffectSuggestionDelay:       true,
	catalog.EffectSuggestionMuteReceive: true,
	catalog.EffectScreenShake:           true,
	catalog.EffectScreenBlur:            true,
	catalog.EffectScreenDistort:         true,
	catalog.EffectMicroDistraction:      true,
	catalog.EffectSuggestPanelHide:      true,
	catalog.EffectSuggestCharLimit:      true,
	catalog.EffectCastLockout:           true,
	catalog.EffectGoldSteal:             true,
	catalog.EffectGoldCostMod:           true,
	catalog.EffectUIOverlayFog:          true,
	catalog.EffectUICursorMirage:        true,
	catalog.EffectUIPanelSwap:           true,
	catalog.EffectUIDimInput:            true,
}

// cleansable lists headline effect types a cleanse removes.
var cleansable = map[catalog.EffectType]bool{
	catalog.EffectTimerSubtract:         true,
	catalog.EffectSuggestionDelay:       true,
	catalog.EffectSuggestionMuteReceive: true,
	catalog.EffectScreenShake:           true,
	catalog.EffectScreenBlur:            true,
	catalog.EffectScreenDistort:         true,
	catalog.EffectMicroDistraction:      true,
	catalog.EffectSuggestPanelHide:      true,
	catalog.EffectSuggestCharLimit:      true,
	catalog.EffectCastLockout:           true,
}

// disruptionTypes are the visual effects a disruption immunity blocks.
var disruptionTypes = []catalog.EffectType{
	catalog.EffectScreenShake,
	catalog.EffectScreenBlur,
	catalog.EffectScreenDistort,
	catalog.EffectMicroDistraction,
	catalog.EffectUIOverlayFog,
	catalog.EffectUICursorMirage,
	catalog.EffectUIPanelSwap,
	catalog.EffectUIDimInput,
}

// commsTypes are the suggestion-interference effects a comms immunity blocks.
var commsTypes = []catalog.EffectType{
	catalog.EffectSuggestionMuteReceive,
	catalog.EffectSuggestionDelay,
	catalog.EffectSuggestPanelHide,
	catalog.EffectSuggestCharLimit,
	catalog.EffectSuggestPingMute,
}
