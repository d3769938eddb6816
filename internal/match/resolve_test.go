package match

import (
	"testing"
	"time"

	"quizclash/internal/catalog"
)

func TestDecoyAbsorbsHostileCast(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "blast")
	tm.red.Gold = 10
	tm.blue.SetModifier(&Modifier{Kind: ModDecoy, Remaining: 1})
	start := tm.m.TimeRemaining()

	tm.cast(t, tm.redActor(), "blast", tm.blue.ID)

	if tm.m.TimeRemaining() != start {
		t.Error("decoyed blast still changed the timer")
	}
	p := tm.bc.named(EventCardCast)[0].Payload.(CardCastPayload)
	if !p.Blocked {
		t.Error("payload should be marked blocked")
	}
	if tm.blue.Modifier(ModDecoy, tm.clock.Now()) != nil {
		t.Error("decoy charge should be spent")
	}
	if _, ok := tm.m.ActiveEffectFor(tm.blue.ID); ok {
		t.Error("blocked cast should not store a headline effect")
	}
}

func TestImmunityBlocksWithoutSpending(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "blast")
	tm.red.Gold = 10
	tm.blue.SetModifier(&Modifier{
		Kind:      ModImmunity,
		Blocks:    map[catalog.EffectType]bool{catalog.EffectTimerSubtract: true},
		ExpiresAt: tm.clock.Now().Add(30 * time.Second),
	})
	start := tm.m.TimeRemaining()

	tm.cast(t, tm.redActor(), "blast", tm.blue.ID)

	if tm.m.TimeRemaining() != start {
		t.Error("immune target still lost time")
	}
	// Immunity persists for its whole window, unlike one-shot defenses.
	if tm.blue.Modifier(ModImmunity, tm.clock.Now()) == nil {
		t.Error("immunity should survive the block")
	}
}

func TestReflectSendsEffectBack(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "heist")
	tm.red.Gold = 10
	tm.blue.Gold = 10
	tm.blue.SetModifier(&Modifier{Kind: ModReflect, Remaining: 1})

	tm.cast(t, tm.redActor(), "heist", tm.blue.ID)

	// The steal rebounds: red pays 4 to cast, then loses 5 to blue.
	if tm.red.Gold != 1 {
		t.Errorf("red gold = %d, want 1", tm.red.Gold)
	}
	if tm.blue.Gold != 15 {
		t.Errorf("blue gold = %d, want 15", tm.blue.Gold)
	}
	p := tm.bc.named(EventCardCast)[0].Payload.(CardCastPayload)
	if !p.Reflected || p.TargetTeamID != tm.red.ID {
		t.Errorf("payload %+v, want reflected back at red", p)
	}
	if tm.blue.Modifier(ModReflect, tm.clock.Now()) != nil {
		t.Error("reflect charge should be spent")
	}
}

func TestShieldBlocksAndBreaks(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "blast")
	tm.red.Gold = 10
	tm.blue.SetModifier(&Modifier{Kind: ModShield})
	start := tm.m.TimeRemaining()

	tm.cast(t, tm.redActor(), "blast", tm.blue.ID)

	if tm.m.TimeRemaining() != start {
		t.Error("shielded blast still changed the timer")
	}
	if tm.blue.Modifier(ModShield, tm.clock.Now()) != nil {
		t.Error("shield should break after one block")
	}
}

func TestRefundOnBlockCreditsCaster(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "blast")
	tm.red.Gold = 10
	tm.red.SetModifier(&Modifier{Kind: ModRefundOnBlock, Remaining: 1})
	tm.blue.SetModifier(&Modifier{Kind: ModShield})

	tm.cast(t, tm.redActor(), "blast", tm.blue.ID)

	// Cost 3 deducted, then fully refunded on the block.
	if tm.red.Gold != 10 {
		t.Errorf("red gold = %d, want 10 after refund", tm.red.Gold)
	}
	if tm.red.Modifier(ModRefundOnBlock, tm.clock.Now()) != nil {
		t.Error("refund charge should be spent")
	}
}

func TestSelfCastSkipsDefenses(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "boost")
	tm.red.Gold = 10
	tm.red.SetModifier(&Modifier{Kind: ModShield})
	start := tm.m.TimeRemaining()

	tm.cast(t, tm.redActor(), "boost", "")

	if tm.m.TimeRemaining() != start+10 {
		t.Error("self cast should bypass the defensive chain")
	}
	if tm.red.Modifier(ModShield, tm.clock.Now()) == nil {
		t.Error("own shield should be untouched by a self cast")
	}
}

func TestNewCastReplacesHeadlineEffect(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "boost", "protect")
	tm.red.Gold = 10

	tm.cast(t, tm.redActor(), "boost", "")
	first, _ := tm.m.ActiveEffectFor(tm.red.ID)

	tm.cast(t, tm.redActor(), "protect", "")
	second, ok := tm.m.ActiveEffectFor(tm.red.ID)
	if !ok || second.ID == first.ID || second.CardID != "protect" {
		t.Errorf("headline effect not replaced: %+v", second)
	}
}

func TestCleanseRemovesNegativeHeadline(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.blue, "charlimit")
	tm.deal(t, tm.red, "cleanse")
	tm.blue.Gold = 10
	tm.red.Gold = 10

	tm.cast(t, tm.blueActor(), "charlimit", tm.red.ID)
	if tm.red.Modifier(ModCharLimit, tm.clock.Now()) == nil {
		t.Fatal("expected char limit on red")
	}

	tm.cast(t, tm.redActor(), "cleanse", "")

	if _, ok := tm.m.ActiveEffectFor(tm.red.ID); ok {
		t.Error("negative headline should be gone after cleanse")
	}
	if tm.red.Modifier(ModCharLimit, tm.clock.Now()) != nil {
		t.Error("char limit modifier should be cleared")
	}
	if len(tm.bc.named(EventEffectsCleansed)) != 1 {
		t.Error("expected EFFECTS_CLEANSED broadcast")
	}
}

func TestCleanseKeepsHarmlessHeadline(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "boost", "cleanse")
	tm.red.Gold = 10

	tm.cast(t, tm.redActor(), "boost", "")
	tm.cast(t, tm.redActor(), "cleanse", "")

	ef, ok := tm.m.ActiveEffectFor(tm.red.ID)
	if !ok || ef.Type != catalog.EffectCleanse {
		t.Errorf("headline = %+v, want the cleanse itself", ef)
	}
}

func TestMultiPartsResolveIndependently(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "combo")
	tm.red.Gold = 10
	start := tm.m.TimeRemaining()

	tm.cast(t, tm.redActor(), "combo", tm.blue.ID)

	if tm.m.TimeRemaining() != start-3 {
		t.Errorf("time = %d, want %d", tm.m.TimeRemaining(), start-3)
	}
	ef, ok := tm.m.ActiveEffectFor(tm.blue.ID)
	if !ok || ef.CardID != "combo" {
		t.Fatalf("headline should be the composite, got %+v", ef)
	}

	// A shield eats the timer part of the next combo, but the composite
	// still lands as the headline.
	tm.bc.reset()
	tm.blue.SetModifier(&Modifier{Kind: ModShield})
	tm.m.StartRound()
	before := tm.m.TimeRemaining()
	tm.cast(t, tm.redActor(), "combo", tm.blue.ID)
	if tm.m.TimeRemaining() != before {
		t.Error("shielded timer part should be skipped")
	}
}
