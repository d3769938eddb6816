// Package match implements the card effect resolution and match-economy
// engine. A Match owns all mutable state for one game room and is driven by
// a single goroutine; external callers hand it work through Post.
package match

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizclash/internal/catalog"
)

// Defaults applied when Config leaves the corresponding field zero.
const (
	DefaultRoundSeconds = 90
	DefaultStartingGold = 5
	DefaultDeckSize     = 4

	// Headline effects with no explicit duration last this long.
	defaultEffectDuration = 10 * time.Second
)

// UnlockSource reports which cards a player has unlocked.
type UnlockSource interface {
	UnlockedCards(ctx context.Context, playerID string) ([]string, error)
}

// ScoreSink receives fire-and-forget incidental score awards.
type ScoreSink interface {
	Award(playerID string, points int, reason string)
}

// Role classifies a connected session.
type Role string

const (
	RolePlayer  Role = "player"
	RoleHost    Role = "host"
	RoleDisplay Role = "display"
)

// Actor identifies the session behind an inbound command.
type Actor struct {
	SessionID string
	PlayerID  string
	Role      Role
}

// Config carries everything a Match needs at construction.
type Config struct {
	Catalog     *catalog.Catalog
	Broadcaster Broadcaster
	Unlocks     UnlockSource
	Scores      ScoreSink
	Logger      *zap.Logger

	// Clock and Seed exist for deterministic tests. Zero values mean
	// time.Now and a time-derived seed.
	Clock func() time.Time
	Seed  int64

	RoundSeconds int
	StartingGold int
	DeckSize     int
}

// ActiveEffect is the headline effect stored per target team. At most one
// is live per team; a newer cast replaces it.
type ActiveEffect struct {
	ID           string
	CardID       string
	Type         catalog.EffectType
	Params       catalog.Effect
	CasterTeamID string
	TargetTeamID string
	CastAt       time.Time
	ExpiresAt    time.Time

	// replaced is the headline this cast displaced. Cleanse consults it.
	replaced *ActiveEffect
}

type inflationRecord struct {
	Amount    int
	ExpiresAt time.Time
}

// Match is the engine for one room. All fields are owned by the Run
// goroutine; mutate only from inside Post callbacks or the loop itself.
type Match struct {
	ID string

	catalog  *catalog.Catalog
	rules    *Rules
	registry map[catalog.EffectType]handlerFunc

	teams map[string]*Team
	order []string

	effects   map[string]*ActiveEffect
	inflation *inflationRecord

	timeRemaining float64
	timerEnabled  bool
	roundNumber   int
	roundActive   bool
	roundSeconds  int
	startingGold  int
	deckSize      int

	tasks  []*task
	gen    uint64
	taskID uint64

	unlockCache map[string]map[string]bool

	unlocks UnlockSource
	scores  ScoreSink
	bc      Broadcaster
	log     *zap.Logger
	now     func() time.Time
	rng     *rand.Rand

	cmds chan func()
}

// New builds a Match and validates that the handler registry covers every
// effect type the catalog references.
func New(cfg Config) (*Match, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("match: catalog required")
	}
	if cfg.Broadcaster == nil {
		return nil, fmt.Errorf("match: broadcaster required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}
	roundSeconds := cfg.RoundSeconds
	if roundSeconds == 0 {
		roundSeconds = DefaultRoundSeconds
	}
	startingGold := cfg.StartingGold
	if startingGold == 0 {
		startingGold = DefaultStartingGold
	}
	deckSize := cfg.DeckSize
	if deckSize == 0 {
		deckSize = DefaultDeckSize
	}
	unlocks := cfg.Unlocks
	if unlocks == nil {
		unlocks = allowAll{}
	}
	scores := cfg.Scores
	if scores == nil {
		scores = nopSink{}
	}

	m := &Match{
		ID:            uuid.NewString(),
		catalog:       cfg.Catalog,
		rules:         newRules(),
		teams:         make(map[string]*Team),
		effects:       make(map[string]*ActiveEffect),
		timeRemaining: float64(roundSeconds),
		roundSeconds:  roundSeconds,
		startingGold:  startingGold,
		deckSize:      deckSize,
		unlockCache:   make(map[string]map[string]bool),
		unlocks:       unlocks,
		scores:        scores,
		bc:            cfg.Broadcaster,
		log:           logger,
		now:           now,
		rng:           rand.New(rand.NewSource(seed)),
		cmds:          make(chan func(), 64),
	}
	m.registry = newRegistry()

	for _, et := range cfg.Catalog.EffectTypes() {
		if _, ok := m.registry[et]; !ok {
			return nil, fmt.Errorf("match: no handler registered for effect type %s", et)
		}
	}

	return m, nil
}

// AddTeam registers a team and returns it. Call before Run.
func (m *Match) AddTeam(name string) *Team {
	t := newTeam(uuid.NewString(), name, m.startingGold, m.deckSize)
	m.teams[t.ID] = t
	m.order = append(m.order, t.ID)
	return t
}

// Team returns a team by id.
func (m *Match) Team(id string) (*Team, bool) {
	t, ok := m.teams[id]
	return t, ok
}

// opponent returns the other team in a two-team match, nil otherwise.
func (m *Match) opponent(teamID string) *Team {
	for _, id := range m.order {
		if id != teamID {
			return m.teams[id]
		}
	}
	return nil
}

// teamForActor resolves the caster's team, healing a stale writer session
// id when the player reconnected under a new session.
func (m *Match) teamForActor(actor Actor) *Team {
	for _, id := range m.order {
		t := m.teams[id]
		if t.Writer == actor.SessionID {
			return t
		}
		if actor.PlayerID != "" && t.WriterPlayerID == actor.PlayerID {
			if t.Writer != actor.SessionID {
				m.log.Debug("healing writer session after reconnect",
					zap.String("team", t.ID),
					zap.String("old", t.Writer),
					zap.String("new", actor.SessionID))
				t.Writer = actor.SessionID
			}
			return t
		}
		for _, s := range t.Suggesters {
			if s == actor.SessionID {
				return t
			}
		}
	}
	return nil
}

// Post hands a command to the match goroutine.
func (m *Match) Post(fn func()) {
	m.cmds <- fn
}

// Run drives the match loop: one command at a time, plus a once-a-second
// housekeeping tick (expiry sweep, deferred tasks, timer). Blocks until the
// context is cancelled.
func (m *Match) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-m.cmds:
			fn()
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick performs one housekeeping step. Exposed so tests can drive the loop
// with a fake clock.
func (m *Match) Tick() {
	now := m.now()
	m.Sweep(now)
	m.runDueTasks(now)
	m.tickTimer()
}

// GoldSnapshot derives the per-team gold map for broadcasting.
func (m *Match) GoldSnapshot() map[string]int {
	gold := make(map[string]int, len(m.teams))
	for id, t := range m.teams {
		gold[id] = t.Gold
	}
	return gold
}

// ActiveEffectFor returns the headline effect on a team, if any.
func (m *Match) ActiveEffectFor(teamID string) (*ActiveEffect, bool) {
	ef, ok := m.effects[teamID]
	return ef, ok
}

// TimeRemaining returns the shared countdown in whole seconds.
func (m *Match) TimeRemaining() int {
	return int(m.timeRemaining)
}

// RoundNumber returns the current round counter.
func (m *Match) RoundNumber() int {
	return m.roundNumber
}

func (m *Match) broadcastGold() {
	m.bc.Broadcast(EventGoldUpdate, GoldPayload{Gold: m.GoldSnapshot()})
}

func (m *Match) broadcastTimer() {
	m.bc.Broadcast(EventTimerUpdate, TimerPayload{
		TimeRemaining: int(m.timeRemaining),
		Enabled:       m.timerEnabled,
	})
}

func (m *Match) sendError(actor Actor, msg string) {
	m.bc.Send(actor.SessionID, EventError, ErrorPayload{Message: msg})
}

// allowAll unlocks everything via the "*" wildcard. Used when no unlock
// source is configured.
type allowAll struct{}

func (allowAll) UnlockedCards(context.Context, string) ([]string, error) {
	return []string{"*"}, nil
}

type nopSink struct{}

func (nopSink) Award(string, int, string) {}
