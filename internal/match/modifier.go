package match

import (
	"time"

	"quizclash/internal/catalog"
)

// ModifierKind names one slot in a team's timed-modifier store. Each team
// holds at most one modifier per kind; re-applying a kind replaces it.
type ModifierKind string

const (
	ModTimerPause       ModifierKind = "timer_pause"
	ModTimerProtect     ModifierKind = "timer_protect"
	ModTimerRate        ModifierKind = "timer_rate"
	ModTimerStartDelay  ModifierKind = "timer_start_delay"
	ModTimerInsurance   ModifierKind = "timer_insurance"
	ModOvertimeClause   ModifierKind = "overtime_clause"
	ModSuggestMute      ModifierKind = "suggest_mute"
	ModSuggestDelay     ModifierKind = "suggest_delay"
	ModPanelHidden      ModifierKind = "panel_hidden"
	ModPriorityChannel  ModifierKind = "priority_channel"
	ModBroadcastMode    ModifierKind = "broadcast_mode"
	ModPingsMuted       ModifierKind = "pings_muted"
	ModCharLimit        ModifierKind = "char_limit"
	ModWriterLock       ModifierKind = "writer_lock"
	ModHighlight        ModifierKind = "highlight"
	ModSpectatorSuggest ModifierKind = "spectator_suggest"
	ModCostModifier     ModifierKind = "cost_modifier"
	ModInterest         ModifierKind = "interest"
	ModRefundOnBlock    ModifierKind = "refund_on_block"
	ModReflect          ModifierKind = "reflect"
	ModDecoy            ModifierKind = "decoy"
	ModShield           ModifierKind = "shield"
	ModImmunity         ModifierKind = "immunity"
	ModCastLockout      ModifierKind = "cast_lockout"
	ModCastInstant      ModifierKind = "cast_instant"
)

// Modifier is one active per-team record. ExpiresAt zero means no time
// limit; Remaining zero means no use count. A modifier with both set goes
// away on whichever runs out first.
type Modifier struct {
	Kind      ModifierKind
	ExpiresAt time.Time
	Remaining int

	// Typed parameters, read per kind.
	Seconds     int
	Amount      int
	Multiplier  float64
	Rate        int
	MaxGain     int
	MaxChars    int
	TopCount    int
	LastCost    int
	HighlightID string
	Blocks      map[catalog.EffectType]bool
}

func (mod *Modifier) expired(now time.Time) bool {
	return !mod.ExpiresAt.IsZero() && !now.Before(mod.ExpiresAt)
}
