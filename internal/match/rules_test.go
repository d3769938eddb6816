package match

import "testing"

func TestRulesValidation(t *testing.T) {
	tm := newTestMatch(t)

	if err := tm.m.DisableCard("bogus"); err == nil {
		t.Error("disabling an unknown card should fail")
	}
	if err := tm.m.SetCostModifier("victory-dance", 1.5); err == nil {
		t.Error("cosmetic cards should not take cost modifiers")
	}
	if err := tm.m.SetCostModifier("blast", 5.0); err != nil {
		t.Fatalf("set cost modifier: %v", err)
	}
	if got := tm.m.Rules().GoldCostModifiers["blast"]; got != 2.0 {
		t.Errorf("stored multiplier = %v, want clamped 2.0", got)
	}
}

func TestEnableCardLiftsDisable(t *testing.T) {
	tm := newTestMatch(t)
	tm.deal(t, tm.red, "boost")
	tm.red.Gold = 10

	tm.m.DisableCard("boost")
	if err := tm.m.HandleCastCard(tm.redActor(), CastRequest{CardID: "boost"}); err == nil {
		t.Fatal("disabled card should be rejected")
	}

	tm.m.EnableCard("boost")
	tm.cast(t, tm.redActor(), "boost", "")
}

func TestRulesBroadcastOnChange(t *testing.T) {
	tm := newTestMatch(t)
	tm.m.DisableCard("boost")
	tm.m.SetCostModifier("blast", 1.5)
	tm.m.ResetRules()

	if got := len(tm.bc.named(EventRulesUpdate)); got != 3 {
		t.Errorf("CARD_RULES_UPDATE events = %d, want 3", got)
	}
}

func TestJoinAndLeaveTeam(t *testing.T) {
	tm := newTestMatch(t)
	tm.blue.Writer = ""
	tm.blue.Suggesters = nil

	first := Actor{SessionID: "s1", PlayerID: "p1", Role: RolePlayer}
	second := Actor{SessionID: "s2", PlayerID: "p2", Role: RolePlayer}
	if err := tm.m.JoinTeam(first, tm.blue.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := tm.m.JoinTeam(second, tm.blue.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if tm.blue.Writer != "s1" || len(tm.blue.Suggesters) != 1 {
		t.Fatalf("roster = %s/%v", tm.blue.Writer, tm.blue.Suggesters)
	}

	// The departing writer hands the pen to the first suggester.
	tm.m.LeaveSession("s1")
	if tm.blue.Writer != "s2" || len(tm.blue.Suggesters) != 0 {
		t.Errorf("roster after leave = %s/%v", tm.blue.Writer, tm.blue.Suggesters)
	}

	if err := tm.m.JoinTeam(first, "no-such-team"); err == nil {
		t.Error("joining an unknown team should fail")
	}
}

func TestRejoinSameTeamKeepsRole(t *testing.T) {
	tm := newTestMatch(t)

	if err := tm.m.JoinTeam(tm.redActor(), tm.red.ID); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if tm.red.Writer != redWriter {
		t.Errorf("writer = %s, want %s", tm.red.Writer, redWriter)
	}
	if got := len(tm.red.Suggesters); got != 2 {
		t.Errorf("suggesters = %d, want 2", got)
	}

	if err := tm.m.JoinTeam(Actor{SessionID: redSug1, Role: RolePlayer}, tm.red.ID); err != nil {
		t.Fatalf("rejoin as suggester: %v", err)
	}
	if tm.red.Suggesters[0] != redSug1 {
		t.Errorf("suggesters reordered: %v", tm.red.Suggesters)
	}
}
