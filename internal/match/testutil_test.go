package match

import (
	"testing"
	"time"

	"quizclash/internal/catalog"
)

// fakeClock is a manually advanced clock for driving Tick and Sweep.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// recordedEvent is one call captured by the recorder.
type recordedEvent struct {
	Event     string
	Payload   any
	TeamID    string // set for team broadcasts
	SessionID string // set for direct sends
}

// recorder is an in-memory Broadcaster for tests.
type recorder struct {
	events []recordedEvent
}

func (r *recorder) Broadcast(event string, payload any) {
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload})
}

func (r *recorder) BroadcastToTeam(teamID, event string, payload any) {
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload, TeamID: teamID})
}

func (r *recorder) Send(sessionID, event string, payload any) {
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload, SessionID: sessionID})
}

func (r *recorder) named(event string) []recordedEvent {
	var out []recordedEvent
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

const testCards = `
cards:
  - id: blast
    name: Blast
    kind: standard
    category: timer
    target: opponent
    baseGoldCost: 3
    effect: {type: TIMER_SUBTRACT, seconds: 8}
  - id: boost
    name: Boost
    kind: standard
    category: timer
    target: self
    baseGoldCost: 3
    effect: {type: TIMER_ADD, seconds: 10}
  - id: swing
    name: Swing
    kind: standard
    category: timer
    target: opponent
    baseGoldCost: 2
    effect: {type: TIMER_TEMPO_SWING, selfAddSeconds: 5, oppSubSeconds: 5}
  - id: pause
    name: Pause
    kind: standard
    category: timer
    target: self
    baseGoldCost: 2
    effect: {type: TIMER_PAUSE, durationSeconds: 5}
  - id: haste
    name: Haste
    kind: standard
    category: timer
    target: opponent
    baseGoldCost: 2
    effect: {type: TIMER_RATE_MULT, multiplier: 2.0, durationSeconds: 5}
  - id: protect
    name: Protect
    kind: standard
    category: timer
    target: self
    baseGoldCost: 2
    effect: {type: TIMER_PROTECT, durationSeconds: 20}
  - id: insurance
    name: Insurance
    kind: standard
    category: timer
    target: self
    baseGoldCost: 2
    effect: {type: TIMER_INSURANCE, insuredSeconds: 4}
  - id: loan
    name: Loan
    kind: standard
    category: timer
    target: self
    baseGoldCost: 1
    effect: {type: TIMER_LOAN, gainSeconds: 10, repaySeconds: 12, repayAfterSeconds: 20}
  - id: overtime
    name: Overtime
    kind: standard
    category: timer
    target: self
    baseGoldCost: 3
    effect: {type: TIMER_OVERTIME_CLAUSE, safetySeconds: 15}
    limits: {scope: round, perTeam: 1}
  - id: gold-rush
    name: Gold Rush
    kind: standard
    category: economy
    target: self
    baseGoldCost: 0
    effect: {type: GOLD_GAIN, amount: 4}
  - id: heist
    name: Heist
    kind: standard
    category: economy
    target: opponent
    baseGoldCost: 4
    effect: {type: GOLD_STEAL, amount: 5}
  - id: tariff
    name: Tariff
    kind: standard
    category: economy
    target: opponent
    baseGoldCost: 3
    effect: {type: GOLD_COST_MOD, modifier: 2, cardCount: 2}
  - id: coupon
    name: Coupon
    kind: standard
    category: economy
    target: self
    baseGoldCost: 2
    effect: {type: GOLD_COST_DISCOUNT, discount: 2, cardCount: 2}
  - id: interest
    name: Interest
    kind: standard
    category: economy
    target: self
    baseGoldCost: 2
    effect: {type: GOLD_INTEREST, rate: 3, maxGain: 4}
  - id: drip
    name: Drip
    kind: standard
    category: economy
    target: self
    baseGoldCost: 2
    effect:
      type: GOLD_DELAYED_GAIN
      gains:
        - {amount: 2, afterSeconds: 5}
        - {amount: 3, afterSeconds: 10}
  - id: inflation
    name: Inflation
    kind: standard
    category: economy
    target: both
    baseGoldCost: 2
    effect: {type: GOLD_INFLATION, modifier: 1, durationSeconds: 30}
  - id: refund
    name: Refund
    kind: standard
    category: economy
    target: self
    baseGoldCost: 1
    effect: {type: GOLD_REFUND_ON_BLOCK, cardCount: 2}
  - id: shield
    name: Shield
    kind: standard
    category: defense
    target: self
    baseGoldCost: 2
    effect: {type: SHIELD_NEGATIVE_NEXT}
  - id: mirror
    name: Mirror
    kind: standard
    category: defense
    target: self
    baseGoldCost: 3
    effect: {type: EFFECT_REFLECT, cardCount: 1}
  - id: decoy
    name: Decoy
    kind: standard
    category: defense
    target: self
    baseGoldCost: 2
    effect: {type: EFFECT_DECOY, cardCount: 1}
  - id: cleanse
    name: Cleanse
    kind: standard
    category: defense
    target: self
    baseGoldCost: 2
    effect: {type: EFFECT_CLEANSE}
  - id: mute
    name: Mute
    kind: standard
    category: comms
    target: opponent
    baseGoldCost: 2
    effect: {type: SUGGESTION_MUTE_RECEIVE, durationSeconds: 15}
  - id: charlimit
    name: Char Limit
    kind: standard
    category: comms
    target: opponent
    baseGoldCost: 2
    effect: {type: SUGGEST_CHAR_LIMIT, maxChars: 10, durationSeconds: 20}
  - id: slowmail
    name: Slow Mail
    kind: standard
    category: comms
    target: opponent
    baseGoldCost: 2
    effect: {type: SUGGESTION_DELAY, delaySeconds: 5, durationSeconds: 20}
  - id: shuffle
    name: Shuffle
    kind: standard
    category: deck
    target: opponent
    baseGoldCost: 2
    effect: {type: DECK_SHUFFLE}
  - id: recall
    name: Recall
    kind: standard
    category: deck
    target: self
    baseGoldCost: 1
    effect: {type: DECK_RECALL}
    limits: {scope: round, perTeam: 1}
  - id: lockout
    name: Lockout
    kind: standard
    category: deck
    target: opponent
    baseGoldCost: 3
    effect: {type: CAST_LOCKOUT, durationSeconds: 10, cardCount: 3}
  - id: rotate
    name: Rotate
    kind: standard
    category: roles
    target: opponent
    baseGoldCost: 2
    effect: {type: WRITER_SWAP}
  - id: anchor
    name: Anchor
    kind: standard
    category: roles
    target: self
    baseGoldCost: 2
    effect: {type: WRITER_LOCK, durationSeconds: 20}
  - id: combo
    name: Combo
    kind: standard
    category: timer
    target: opponent
    baseGoldCost: 4
    effect:
      type: MULTI
      parts:
        - {type: TIMER_SUBTRACT, seconds: 3}
        - {type: SCREEN_SHAKE, durationSeconds: 5}
  - id: victory-dance
    name: Victory Dance
    kind: cosmetic
    category: cosmetic
    target: self
    baseGoldCost: 0
    effect: {type: COSMETIC, cosmeticKey: dance}
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load([]byte(testCards))
	if err != nil {
		t.Fatalf("load test catalog: %v", err)
	}
	return cat
}

// testMatch bundles a match with its fakes and two pre-wired teams.
type testMatch struct {
	m     *Match
	bc    *recorder
	clock *fakeClock
	red   *Team
	blue  *Team
}

// Session ids used by the fixtures.
const (
	redWriter  = "red-writer"
	redSug1    = "red-sug-1"
	redSug2    = "red-sug-2"
	blueWriter = "blue-writer"
	blueSug1   = "blue-sug-1"
)

func newTestMatch(t *testing.T) *testMatch {
	t.Helper()
	bc := &recorder{}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	m, err := New(Config{
		Catalog:     testCatalog(t),
		Broadcaster: bc,
		Logger:      nil,
		Clock:       clock.Now,
		Seed:        1,
		DeckSize:    8,
	})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}

	red := m.AddTeam("Red")
	blue := m.AddTeam("Blue")
	red.Writer = redWriter
	red.Suggesters = []string{redSug1, redSug2}
	blue.Writer = blueWriter
	blue.Suggesters = []string{blueSug1}

	return &testMatch{m: m, bc: bc, clock: clock, red: red, blue: blue}
}

func (tm *testMatch) redActor() Actor {
	return Actor{SessionID: redWriter, PlayerID: "p-red", Role: RolePlayer}
}

func (tm *testMatch) blueActor() Actor {
	return Actor{SessionID: blueWriter, PlayerID: "p-blue", Role: RolePlayer}
}

// deal puts cards into a team's deck slots.
func (tm *testMatch) deal(t *testing.T, team *Team, cards ...string) {
	t.Helper()
	if err := tm.m.SetDeck(team.ID, cards); err != nil {
		t.Fatalf("set deck: %v", err)
	}
}

// cast fails the test on any cast error.
func (tm *testMatch) cast(t *testing.T, actor Actor, cardID, targetID string) {
	t.Helper()
	if err := tm.m.HandleCastCard(actor, CastRequest{CardID: cardID, TargetTeamID: targetID}); err != nil {
		t.Fatalf("cast %s: %v", cardID, err)
	}
}
