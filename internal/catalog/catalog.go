// Package catalog holds the static card table. Definitions are loaded once at
// process start from an embedded YAML file and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes gameplay cards from purely visual ones.
type Kind string

const (
	KindStandard Kind = "standard"
	KindCosmetic Kind = "cosmetic"
)

// Target declares which team a card may be aimed at.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
	TargetBoth     Target = "both"
)

// EffectType names a single effect op-code. The match engine keeps a handler
// registry keyed by these values and validates it against the catalog at start.
type EffectType string

const (
	// Timer
	EffectTimerAdd               EffectType = "TIMER_ADD"
	EffectTimerSubtract          EffectType = "TIMER_SUBTRACT"
	EffectTimerTempoSwing        EffectType = "TIMER_TEMPO_SWING"
	EffectTimerAddConditional    EffectType = "TIMER_ADD_CONDITIONAL"
	EffectTimerAddIfSuggestersLt EffectType = "TIMER_ADD_IF_SUGGESTERS_LT"
	EffectTimerPause             EffectType = "TIMER_PAUSE"
	EffectTimerProtect           EffectType = "TIMER_PROTECT"
	EffectTimerRateMult          EffectType = "TIMER_RATE_MULT"
	EffectTimerLoan              EffectType = "TIMER_LOAN"
	EffectTimerOvertimeClause    EffectType = "TIMER_OVERTIME_CLAUSE"
	EffectTimerStartDelay        EffectType = "TIMER_START_DELAY"
	EffectTimerInsurance         EffectType = "TIMER_INSURANCE"

	// Suggestions / comms
	EffectSuggestionMuteReceive EffectType = "SUGGESTION_MUTE_RECEIVE"
	EffectSuggestionDelay       EffectType = "SUGGESTION_DELAY"
	EffectSuggestPanelHide      EffectType = "SUGGEST_PANEL_HIDE"
	EffectSuggestPriority       EffectType = "SUGGEST_PRIORITY_CHANNEL"
	EffectSuggestQueueClear     EffectType = "SUGGEST_QUEUE_CLEAR"
	EffectSuggestBroadcastMode  EffectType = "SUGGEST_BROADCAST_MODE"
	EffectSuggestPingMute       EffectType = "SUGGEST_PING_MUTE"
	EffectSuggestCharLimit      EffectType = "SUGGEST_CHAR_LIMIT"

	// Writer / roles
	EffectWriterSwap              EffectType = "WRITER_SWAP"
	EffectWriterDoubleSwap        EffectType = "WRITER_DOUBLE_SWAP"
	EffectWriterRoulette          EffectType = "WRITER_ROULETTE"
	EffectWriterChoose            EffectType = "WRITER_CHOOSE"
	EffectWriterLock              EffectType = "WRITER_LOCK"
	EffectWriterScheduledSwap     EffectType = "WRITER_SCHEDULED_SWAP"
	EffectSuggesterHighlight      EffectType = "SUGGESTER_HIGHLIGHT"
	EffectSuggesterSpectatorOn    EffectType = "SUGGESTER_SPECTATOR_ENABLE"

	// Economy
	EffectGoldGain          EffectType = "GOLD_GAIN"
	EffectGoldSteal         EffectType = "GOLD_STEAL"
	EffectGoldCostMod       EffectType = "GOLD_COST_MOD"
	EffectGoldCostDiscount  EffectType = "GOLD_COST_DISCOUNT"
	EffectGoldInterest      EffectType = "GOLD_INTEREST"
	EffectGoldDelayedGain   EffectType = "GOLD_DELAYED_GAIN"
	EffectGoldRefundOnBlock EffectType = "GOLD_REFUND_ON_BLOCK"
	EffectGoldInflation     EffectType = "GOLD_INFLATION"

	// Defense
	EffectImmunity           EffectType = "IMMUNITY"
	EffectShieldNegativeNext EffectType = "SHIELD_NEGATIVE_NEXT"
	EffectShieldRecharge     EffectType = "SHIELD_RECHARGE"
	EffectReflect            EffectType = "EFFECT_REFLECT"
	EffectCleanse            EffectType = "EFFECT_CLEANSE"
	EffectImmunityDisruption EffectType = "EFFECT_IMMUNITY_DISRUPTION"
	EffectImmunityComms      EffectType = "EFFECT_IMMUNITY_COMMS"
	EffectDecoy              EffectType = "EFFECT_DECOY"

	// Deck / casting
	EffectDeckShuffle   EffectType = "DECK_SHUFFLE"
	EffectDeckMoveCard  EffectType = "DECK_MOVE_CARD"
	EffectDeckSwapSlots EffectType = "DECK_SWAP_SLOTS"
	EffectDeckRecall    EffectType = "DECK_RECALL"
	EffectCastLockout   EffectType = "CAST_LOCKOUT"
	EffectCastInstant   EffectType = "CAST_INSTANT"

	// Advisory UI / disruption (stored and broadcast, rendered client-side)
	EffectScreenShake      EffectType = "SCREEN_SHAKE"
	EffectScreenBlur       EffectType = "SCREEN_BLUR"
	EffectScreenDistort    EffectType = "SCREEN_DISTORT"
	EffectMicroDistraction EffectType = "MICRO_DISTRACTION"
	EffectUIOverlayFog     EffectType = "UI_OVERLAY_FOG"
	EffectUICursorMirage   EffectType = "UI_CURSOR_MIRAGE"
	EffectUIPanelSwap      EffectType = "UI_PANEL_SWAP"
	EffectUIDimInput       EffectType = "UI_DIM_INPUT"

	// Composite / sentinel
	EffectMulti    EffectType = "MULTI"
	EffectCosmetic EffectType = "COSMETIC"
)

// DelayedGain is one scheduled credit of a GOLD_DELAYED_GAIN effect.
type DelayedGain struct {
	Amount       int `yaml:"amount" json:"amount"`
	AfterSeconds int `yaml:"afterSeconds" json:"afterSeconds"`
}

// Effect is the descriptor attached to a card. The parameter fields form a
// union: each effect type reads only the fields it documents, the rest stay
// zero. MULTI carries sub-effects in Parts.
type Effect struct {
	Type EffectType `yaml:"type" json:"type"`

	Seconds               int     `yaml:"seconds,omitempty" json:"seconds,omitempty"`
	SelfAddSeconds        int     `yaml:"selfAddSeconds,omitempty" json:"selfAddSeconds,omitempty"`
	OppSubSeconds         int     `yaml:"oppSubSeconds,omitempty" json:"oppSubSeconds,omitempty"`
	ThresholdBelowSeconds int     `yaml:"thresholdBelowSeconds,omitempty" json:"thresholdBelowSeconds,omitempty"`
	IfBelowAdd            int     `yaml:"ifBelowAdd,omitempty" json:"ifBelowAdd,omitempty"`
	ElseAdd               int     `yaml:"elseAdd,omitempty" json:"elseAdd,omitempty"`
	SuggestersLessThan    int     `yaml:"suggestersLessThan,omitempty" json:"suggestersLessThan,omitempty"`
	AddSeconds            int     `yaml:"addSeconds,omitempty" json:"addSeconds,omitempty"`
	DurationSeconds       int     `yaml:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	DelaySeconds          int     `yaml:"delaySeconds,omitempty" json:"delaySeconds,omitempty"`
	Multiplier            float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	GainSeconds           int     `yaml:"gainSeconds,omitempty" json:"gainSeconds,omitempty"`
	RepaySeconds          int     `yaml:"repaySeconds,omitempty" json:"repaySeconds,omitempty"`
	RepayAfterSeconds     int     `yaml:"repayAfterSeconds,omitempty" json:"repayAfterSeconds,omitempty"`
	SafetySeconds         int     `yaml:"safetySeconds,omitempty" json:"safetySeconds,omitempty"`
	InsuredSeconds        int     `yaml:"insuredSeconds,omitempty" json:"insuredSeconds,omitempty"`
	ExpiresSeconds        int     `yaml:"expiresSeconds,omitempty" json:"expiresSeconds,omitempty"`
	ExtendSeconds         int     `yaml:"extendSeconds,omitempty" json:"extendSeconds,omitempty"`

	TopCount int `yaml:"topCount,omitempty" json:"topCount,omitempty"`
	MaxChars int `yaml:"maxChars,omitempty" json:"maxChars,omitempty"`

	Mode                   string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Revert                 bool   `yaml:"revert,omitempty" json:"revert,omitempty"`
	FirstSwap              string `yaml:"firstSwap,omitempty" json:"firstSwap,omitempty"`
	SecondSwap             string `yaml:"secondSwap,omitempty" json:"secondSwap,omitempty"`
	SecondSwapAfterSeconds int    `yaml:"secondSwapAfterSeconds,omitempty" json:"secondSwapAfterSeconds,omitempty"`
	SwapAfterSeconds       int    `yaml:"swapAfterSeconds,omitempty" json:"swapAfterSeconds,omitempty"`
	RequiresClientChoice   bool   `yaml:"requiresClientChoice,omitempty" json:"requiresClientChoice,omitempty"`

	Amount    int           `yaml:"amount,omitempty" json:"amount,omitempty"`
	Modifier  int           `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Discount  int           `yaml:"discount,omitempty" json:"discount,omitempty"`
	CardCount int           `yaml:"cardCount,omitempty" json:"cardCount,omitempty"`
	Rate      int           `yaml:"rate,omitempty" json:"rate,omitempty"`
	MaxGain   int           `yaml:"maxGain,omitempty" json:"maxGain,omitempty"`
	Gains     []DelayedGain `yaml:"gains,omitempty" json:"gains,omitempty"`
	Trigger   string        `yaml:"trigger,omitempty" json:"trigger,omitempty"`

	BlocksEffectTypes []EffectType `yaml:"blocksEffectTypes,omitempty" json:"blocksEffectTypes,omitempty"`

	Position    string `yaml:"position,omitempty" json:"position,omitempty"`
	Intensity   string `yaml:"intensity,omitempty" json:"intensity,omitempty"`
	CosmeticKey string `yaml:"cosmeticKey,omitempty" json:"cosmeticKey,omitempty"`

	Parts []Effect `yaml:"parts,omitempty" json:"parts,omitempty"`
}

// Limits restricts how often a card may be cast.
type Limits struct {
	Scope   string `yaml:"scope" json:"scope"` // "round" or "match"
	PerTeam int    `yaml:"perTeam" json:"perTeam"`
}

// Card is one immutable catalog entry.
type Card struct {
	ID           string  `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Kind         Kind    `yaml:"kind" json:"kind"`
	Category     string  `yaml:"category" json:"category"`
	Target       Target  `yaml:"target" json:"target"`
	UnlockXP     int     `yaml:"unlockXp" json:"unlockXp"`
	BaseGoldCost int     `yaml:"baseGoldCost" json:"baseGoldCost"`
	Description  string  `yaml:"description" json:"description"`
	Effect       Effect  `yaml:"effect" json:"effect"`
	Limits       *Limits `yaml:"limits,omitempty" json:"limits,omitempty"`
}

// Catalog is the loaded card table.
type Catalog struct {
	byID    map[string]*Card
	ordered []*Card
}

//go:embed cards.yaml
var defaultCards []byte

type catalogFile struct {
	Cards []*Card `yaml:"cards"`
}

// Load parses a YAML card table and validates it.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{byID: make(map[string]*Card, len(file.Cards))}
	for _, card := range file.Cards {
		if card.ID == "" {
			return nil, fmt.Errorf("catalog card %q has no id", card.Name)
		}
		if _, dup := c.byID[card.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", card.ID)
		}
		switch card.Kind {
		case KindStandard, KindCosmetic:
		default:
			return nil, fmt.Errorf("card %q: unknown kind %q", card.ID, card.Kind)
		}
		switch card.Target {
		case TargetSelf, TargetOpponent, TargetBoth:
		default:
			return nil, fmt.Errorf("card %q: unknown target %q", card.ID, card.Target)
		}
		if card.Effect.Type == "" {
			return nil, fmt.Errorf("card %q: effect has no type", card.ID)
		}
		if card.BaseGoldCost < 0 {
			return nil, fmt.Errorf("card %q: negative base cost", card.ID)
		}
		c.byID[card.ID] = card
		c.ordered = append(c.ordered, card)
	}
	return c, nil
}

// Default loads the embedded card table. Panics on a malformed embed, which
// can only happen from a bad build.
func Default() *Catalog {
	c, err := Load(defaultCards)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Get looks up a card by id.
func (c *Catalog) Get(id string) (*Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Cards returns all entries in file order.
func (c *Catalog) Cards() []*Card {
	return c.ordered
}

// EffectTypes returns the distinct effect types referenced by the table,
// including MULTI sub-parts. The match engine checks its handler registry
// covers all of them at startup.
func (c *Catalog) EffectTypes() []EffectType {
	seen := make(map[EffectType]bool)
	var collect func(e Effect)
	collect = func(e Effect) {
		seen[e.Type] = true
		for _, part := range e.Parts {
			collect(part)
		}
	}
	for _, card := range c.ordered {
		collect(card.Effect)
	}
	types := make([]EffectType, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	return types
}
