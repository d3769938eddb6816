package match

import (
	"time"

	"quizclash/internal/catalog"
)

// Defense effect handlers.

// grantImmunity unions effect types into the team's immunity record and
// keeps the later expiry when one already exists.
func grantImmunity(m *Match, team *Team, types []catalog.EffectType, until time.Time) {
	now := m.now()
	mod := team.Modifier(ModImmunity, now)
	if mod == nil {
		mod = &Modifier{Kind: ModImmunity, Blocks: make(map[catalog.EffectType]bool)}
		team.SetModifier(mod)
	}
	for _, t := range types {
		mod.Blocks[t] = true
	}
	if until.After(mod.ExpiresAt) {
		mod.ExpiresAt = until
	}
}

func handleImmunity(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || len(ef.Params.BlocksEffectTypes) == 0 {
		return
	}
	grantImmunity(m, target, ef.Params.BlocksEffectTypes, ef.ExpiresAt)
}

func handleImmunityDisruption(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	until := m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second)
	grantImmunity(m, target, disruptionTypes, until)
}

func handleImmunityComms(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	until := m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second)
	grantImmunity(m, target, commsTypes, until)
}

func handleShieldNegativeNext(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	mod := &Modifier{Kind: ModShield}
	if ef.Params.ExpiresSeconds > 0 {
		mod.ExpiresAt = m.now().Add(time.Duration(ef.Params.ExpiresSeconds) * time.Second)
	}
	target.SetModifier(mod)
}

// handleShieldRecharge extends a live shield, converts an unexpiring one
// to a timed window, or grants a fresh shield when none is up.
func handleShieldRecharge(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	extend := ef.Params.ExtendSeconds
	if extend <= 0 {
		extend = 10
	}
	now := m.now()
	if shield := target.Modifier(ModShield, now); shield != nil {
		if shield.ExpiresAt.IsZero() {
			shield.ExpiresAt = now.Add(time.Duration(extend) * time.Second)
		} else {
			shield.ExpiresAt = shield.ExpiresAt.Add(time.Duration(extend) * time.Second)
		}
		return
	}
	target.SetModifier(&Modifier{Kind: ModShield})
}

func handleEffectReflect(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{Kind: ModReflect, Remaining: ef.Params.CardCount})
}

// handleEffectCleanse strips the team's negative headline effect and the
// stored modifiers those effects plant.
func handleEffectCleanse(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	// The cleanse itself is already the headline; the effect it displaced
	// is the one to judge. Dropping the slot removes both.
	if prev := ef.replaced; prev != nil && cleansable[prev.Type] {
		delete(m.effects, target.ID)
	}
	wasHidden := target.Modifier(ModPanelHidden, m.now()) != nil
	for _, kind := range []ModifierKind{
		ModSuggestMute, ModSuggestDelay, ModPanelHidden, ModCharLimit, ModCastLockout,
	} {
		target.ClearModifier(kind)
	}
	if wasHidden {
		m.bc.BroadcastToTeam(target.ID, EventPanelVisible, struct{}{})
	}
	m.bc.BroadcastToTeam(target.ID, EventEffectsCleansed, struct{}{})
}

func handleEffectDecoy(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{Kind: ModDecoy, Remaining: ef.Params.CardCount})
}
