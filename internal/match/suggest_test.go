package match

import (
	"errors"
	"testing"
	"time"
)

func suggest(tm *testMatch, sessionID, text string) error {
	return tm.m.HandleSuggestion(
		Actor{SessionID: sessionID, Role: RolePlayer},
		SuggestionRequest{Text: text},
	)
}

func TestSuggestionReachesWriter(t *testing.T) {
	tm := newTestMatch(t)

	if err := suggest(tm, redSug1, "try option B"); err != nil {
		t.Fatalf("suggest: %v", err)
	}

	sent := tm.bc.named(EventSuggestion)
	if len(sent) != 1 || sent[0].SessionID != redWriter {
		t.Fatalf("expected one SUGGESTION to the writer, got %+v", sent)
	}
	s := sent[0].Payload.(Suggestion)
	if s.Text != "try option B" || s.FromSessionID != redSug1 {
		t.Errorf("unexpected suggestion %+v", s)
	}
	if len(tm.red.Suggestions) != 1 {
		t.Errorf("queue length = %d, want 1", len(tm.red.Suggestions))
	}
}

func TestSuggestionMuteDropsSilently(t *testing.T) {
	tm := newTestMatch(t)
	tm.red.SetModifier(&Modifier{
		Kind:      ModSuggestMute,
		ExpiresAt: tm.clock.Now().Add(15 * time.Second),
	})

	if err := suggest(tm, redSug1, "hello?"); err != nil {
		t.Fatalf("muted suggestion should not error, got %v", err)
	}
	if len(tm.bc.named(EventSuggestion)) != 0 {
		t.Error("muted suggestion should not be delivered")
	}
	if len(tm.red.Suggestions) != 0 {
		t.Error("muted suggestion should not queue")
	}
}

func TestSuggestionCharLimitRejects(t *testing.T) {
	tm := newTestMatch(t)
	tm.red.SetModifier(&Modifier{
		Kind:      ModCharLimit,
		MaxChars:  5,
		ExpiresAt: tm.clock.Now().Add(20 * time.Second),
	})

	err := suggest(tm, redSug1, "way too long")
	var cerr *CastError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *CastError", err)
	}
	if len(tm.bc.named(EventError)) != 1 {
		t.Error("suggester should get an ERROR")
	}

	if err := suggest(tm, redSug1, "ok"); err != nil {
		t.Fatalf("short suggestion should pass: %v", err)
	}
}

func TestSuggestionDelayHoldsDelivery(t *testing.T) {
	tm := newTestMatch(t)
	tm.red.SetModifier(&Modifier{
		Kind:      ModSuggestDelay,
		Seconds:   5,
		ExpiresAt: tm.clock.Now().Add(20 * time.Second),
	})

	if err := suggest(tm, redSug1, "delayed"); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(tm.bc.named(EventSuggestion)) != 0 {
		t.Fatal("delayed suggestion delivered immediately")
	}

	tm.clock.Advance(5 * time.Second)
	tm.m.Tick()
	sent := tm.bc.named(EventSuggestion)
	if len(sent) != 1 || sent[0].SessionID != redWriter {
		t.Fatalf("expected delivery after the delay, got %+v", sent)
	}
}

func TestPriorityChannelFiltersLaterSuggesters(t *testing.T) {
	tm := newTestMatch(t)
	tm.red.SetModifier(&Modifier{
		Kind:      ModPriorityChannel,
		TopCount:  1,
		ExpiresAt: tm.clock.Now().Add(20 * time.Second),
	})

	suggest(tm, redSug1, "from the top suggester")
	suggest(tm, redSug2, "from the bench")

	sent := tm.bc.named(EventSuggestion)
	if len(sent) != 1 {
		t.Fatalf("SUGGESTION events = %d, want 1", len(sent))
	}
	if s := sent[0].Payload.(Suggestion); s.FromSessionID != redSug1 {
		t.Errorf("wrong suggestion shown: %+v", s)
	}
	// Filtered messages still queue for later.
	if len(tm.red.Suggestions) != 2 {
		t.Errorf("queue length = %d, want 2", len(tm.red.Suggestions))
	}
}

func TestSpectatorSuggestRequiresBenchCoaching(t *testing.T) {
	tm := newTestMatch(t)
	spectator := Actor{SessionID: "spec-1", Role: RolePlayer}

	err := tm.m.HandleSuggestion(spectator, SuggestionRequest{TeamID: tm.red.ID, Text: "go left"})
	var cerr *CastError
	if !errors.As(err, &cerr) {
		t.Fatalf("spectator without bench coaching should be rejected, got %v", err)
	}

	tm.red.SetModifier(&Modifier{
		Kind:      ModSpectatorSuggest,
		ExpiresAt: tm.clock.Now().Add(20 * time.Second),
	})
	if err := tm.m.HandleSuggestion(spectator, SuggestionRequest{TeamID: tm.red.ID, Text: "go left"}); err != nil {
		t.Fatalf("spectator suggest with bench coaching: %v", err)
	}
	if len(tm.bc.named(EventSuggestion)) != 1 {
		t.Error("spectator suggestion should reach the writer")
	}
}

func TestHighlightedSuggesterMarked(t *testing.T) {
	tm := newTestMatch(t)
	tm.red.SetModifier(&Modifier{
		Kind:        ModHighlight,
		HighlightID: redSug2,
		ExpiresAt:   tm.clock.Now().Add(15 * time.Second),
	})

	suggest(tm, redSug1, "plain")
	suggest(tm, redSug2, "shiny")

	sent := tm.bc.named(EventSuggestion)
	if len(sent) != 2 {
		t.Fatalf("SUGGESTION events = %d, want 2", len(sent))
	}
	if s := sent[0].Payload.(Suggestion); s.Highlighted {
		t.Error("unhighlighted suggester marked")
	}
	if s := sent[1].Payload.(Suggestion); !s.Highlighted {
		t.Error("highlighted suggester not marked")
	}
}
