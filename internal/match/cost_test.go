package match

import (
	"testing"
	"time"
)

func TestAdjustedCostHostMultiplier(t *testing.T) {
	tests := []struct {
		name string
		mult float64
		want int
	}{
		{"markup", 1.5, 5},       // 3 + (4.5-3) = 4.5, ceil = 5
		{"discount", 0.5, 2},     // 3 + (1.5-3) = 1.5, ceil = 2
		{"unit", 1.0, 3},         // no delta
		{"clamped high", 9.0, 6}, // clamps to 2.0
		{"clamped low", 0.1, 2},  // clamps to 0.5
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := newTestMatch(t)
			card, _ := tm.m.catalog.Get("blast")
			if err := tm.m.SetCostModifier("blast", tt.mult); err != nil {
				t.Fatalf("set cost modifier: %v", err)
			}
			if got := tm.m.AdjustedCost(card, tm.red); got != tt.want {
				t.Errorf("AdjustedCost = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustedCostTeamModifierStacks(t *testing.T) {
	tm := newTestMatch(t)
	card, _ := tm.m.catalog.Get("blast")

	tm.red.SetModifier(&Modifier{Kind: ModCostModifier, Amount: 2, Remaining: 2})
	if got := tm.m.AdjustedCost(card, tm.red); got != 5 {
		t.Errorf("tariffed cost = %d, want 5", got)
	}

	tm.red.SetModifier(&Modifier{Kind: ModCostModifier, Amount: -2, Remaining: 2})
	if got := tm.m.AdjustedCost(card, tm.red); got != 1 {
		t.Errorf("discounted cost = %d, want 1", got)
	}
}

func TestAdjustedCostInflation(t *testing.T) {
	tm := newTestMatch(t)
	card, _ := tm.m.catalog.Get("blast")

	tm.m.inflation = &inflationRecord{Amount: 2, ExpiresAt: tm.clock.Now().Add(30 * time.Second)}
	if got := tm.m.AdjustedCost(card, tm.red); got != 5 {
		t.Errorf("inflated cost = %d, want 5", got)
	}

	tm.clock.Advance(31 * time.Second)
	if got := tm.m.AdjustedCost(card, tm.red); got != 3 {
		t.Errorf("cost after inflation lapsed = %d, want 3", got)
	}
}

func TestAdjustedCostFloors(t *testing.T) {
	tm := newTestMatch(t)

	// A standard card never costs less than 1, even from base 0.
	rush, _ := tm.m.catalog.Get("gold-rush")
	if got := tm.m.AdjustedCost(rush, tm.red); got != 1 {
		t.Errorf("base-0 standard cost = %d, want 1", got)
	}

	// A deep discount cannot push cost below the floor.
	blast, _ := tm.m.catalog.Get("blast")
	tm.red.SetModifier(&Modifier{Kind: ModCostModifier, Amount: -10, Remaining: 1})
	if got := tm.m.AdjustedCost(blast, tm.red); got != 1 {
		t.Errorf("over-discounted cost = %d, want 1", got)
	}

	// Cosmetics keep the zero floor.
	dance, _ := tm.m.catalog.Get("victory-dance")
	if got := tm.m.AdjustedCost(dance, tm.red); got != 0 {
		t.Errorf("cosmetic cost = %d, want 0", got)
	}
}
