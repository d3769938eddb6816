package match

import (
	"go.uber.org/zap"

	"quizclash/internal/catalog"
)

// handlerFunc applies one resolved effect. Handlers run on the match
// goroutine and may mutate any state.
type handlerFunc func(m *Match, ef *ActiveEffect)

// newRegistry builds the full effect handler table. New verifies it covers
// every type the catalog references, so a card added without a handler
// fails at startup instead of silently no-opping mid-match.
func newRegistry() map[catalog.EffectType]handlerFunc {
	return map[catalog.EffectType]handlerFunc{
		catalog.EffectTimerAdd:               handleTimerAdd,
		catalog.EffectTimerSubtract:          handleTimerSubtract,
		catalog.EffectTimerTempoSwing:        handleTimerTempoSwing,
		catalog.EffectTimerAddConditional:    handleTimerAddConditional,
		catalog.EffectTimerAddIfSuggestersLt: handleTimerAddIfSuggestersLt,
		catalog.EffectTimerPause:             handleTimerPause,
		catalog.EffectTimerProtect:           handleTimerProtect,
		catalog.EffectTimerRateMult:          handleTimerRateMult,
		catalog.EffectTimerLoan:              handleTimerLoan,
		catalog.EffectTimerOvertimeClause:    handleTimerOvertimeClause,
		catalog.EffectTimerStartDelay:        handleTimerStartDelay,
		catalog.EffectTimerInsurance:         handleTimerInsurance,

		catalog.EffectSuggestionMuteReceive: handleSuggestionMuteReceive,
		catalog.EffectSuggestionDelay:       handleSuggestionDelay,
		catalog.EffectSuggestPanelHide:      handleSuggestPanelHide,
		catalog.EffectSuggestPriority:       handleSuggestPriorityChannel,
		catalog.EffectSuggestQueueClear:     handleSuggestQueueClear,
		catalog.EffectSuggestBroadcastMode:  handleSuggestBroadcastMode,
		catalog.EffectSuggestPingMute:       handleSuggestPingMute,
		catalog.EffectSuggestCharLimit:      handleSuggestCharLimit,

		catalog.EffectWriterSwap:           handleWriterSwap,
		catalog.EffectWriterDoubleSwap:     handleWriterDoubleSwap,
		catalog.EffectWriterRoulette:       handleWriterRoulette,
		catalog.EffectWriterChoose:         handleWriterChoose,
		catalog.EffectWriterLock:           handleWriterLock,
		catalog.EffectWriterScheduledSwap:  handleWriterScheduledSwap,
		catalog.EffectSuggesterHighlight:   handleSuggesterHighlight,
		catalog.EffectSuggesterSpectatorOn: handleSuggesterSpectatorEnable,

		catalog.EffectGoldGain:          handleGoldGain,
		catalog.EffectGoldSteal:         handleGoldSteal,
		catalog.EffectGoldCostMod:       handleGoldCostMod,
		catalog.EffectGoldCostDiscount:  handleGoldCostDiscount,
		catalog.EffectGoldInterest:      handleGoldInterest,
		catalog.EffectGoldDelayedGain:   handleGoldDelayedGain,
		catalog.EffectGoldRefundOnBlock: handleGoldRefundOnBlock,
		catalog.EffectGoldInflation:     handleGoldInflation,

		catalog.EffectImmunity:           handleImmunity,
		catalog.EffectShieldNegativeNext: handleShieldNegativeNext,
		catalog.EffectShieldRecharge:     handleShieldRecharge,
		catalog.EffectReflect:            handleEffectReflect,
		catalog.EffectCleanse:            handleEffectCleanse,
		catalog.EffectImmunityDisruption: handleImmunityDisruption,
		catalog.EffectImmunityComms:      handleImmunityComms,
		catalog.EffectDecoy:              handleEffectDecoy,

		catalog.EffectDeckShuffle:   handleDeckShuffle,
		catalog.EffectDeckMoveCard:  handleDeckMoveCard,
		catalog.EffectDeckSwapSlots: handleDeckSwapSlots,
		catalog.EffectDeckRecall:    handleDeckRecall,
		catalog.EffectCastLockout:   handleCastLockout,
		catalog.EffectCastInstant:   handleCastInstant,

		// UI effects live as the stored headline only; clients render them.
		catalog.EffectScreenShake:      handleUIAdvisory,
		catalog.EffectScreenBlur:       handleUIAdvisory,
		catalog.EffectScreenDistort:    handleUIAdvisory,
		catalog.EffectMicroDistraction: handleUIAdvisory,
		catalog.EffectUIOverlayFog:     handleUIAdvisory,
		catalog.EffectUICursorMirage:   handleUIAdvisory,
		catalog.EffectUIPanelSwap:      handleUIAdvisory,
		catalog.EffectUIDimInput:       handleUIAdvisory,

		catalog.EffectMulti:    handleMulti,
		catalog.EffectCosmetic: handleNoop,
	}
}

func (m *Match) dispatch(ef *ActiveEffect) {
	h, ok := m.registry[ef.Type]
	if !ok {
		m.log.Warn("unknown effect type", zap.String("type", string(ef.Type)))
		return
	}
	h(m, ef)
}

// handleMulti resolves each sub-effect in order. Every hostile part runs
// the defensive chain on its own; a blocked part is skipped without
// touching the others. The composite stays the stored headline.
func handleMulti(m *Match, ef *ActiveEffect) {
	for _, part := range ef.Params.Parts {
		caster, target, blocked, _ :=
			m.resolveInteractions(part.Type, ef.CasterTeamID, ef.TargetTeamID)
		if blocked {
			continue
		}
		child := &ActiveEffect{
			ID:           ef.ID,
			CardID:       ef.CardID,
			Type:         part.Type,
			Params:       part,
			CasterTeamID: caster,
			TargetTeamID: target,
			CastAt:       ef.CastAt,
			ExpiresAt:    ef.ExpiresAt,
		}
		h, ok := m.registry[part.Type]
		if !ok {
			m.log.Warn("unknown effect type in multi part", zap.String("type", string(part.Type)))
			continue
		}
		h(m, child)
	}
}

func handleUIAdvisory(m *Match, ef *ActiveEffect) {
	m.log.Debug("ui effect stored for client rendering",
		zap.String("type", string(ef.Type)),
		zap.String("target", ef.TargetTeamID))
}

func handleNoop(*Match, *ActiveEffect) {}
