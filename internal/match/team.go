package match

import "time"

// Suggestion is one message queued for a team's writer.
type Suggestion struct {
	FromSessionID string    `json:"from"`
	Text          string    `json:"text"`
	Highlighted   bool      `json:"highlighted,omitempty"`
	At            time.Time `json:"at"`
}

// Team holds one side's mutable state. Gold here is the single source of
// truth; broadcast payloads derive from it.
type Team struct {
	ID   string
	Name string
	Gold int

	// DeckSlots is a fixed-size list of card ids. Empty string marks an
	// unfilled slot.
	DeckSlots []string

	Writer         string // session id
	WriterPlayerID string
	Suggesters     []string // session ids
	Suggestions    []Suggestion

	mods map[ModifierKind]*Modifier

	LastCastCard string

	roundUsage map[string]int
	matchUsage map[string]int

	// Pending client choices opened by choice-driven effects.
	pendingWriterChoice     bool
	pendingHighlightSeconds int
	pendingDeckMove         bool
	pendingSlotSwap         bool
}

func newTeam(id, name string, gold, deckSize int) *Team {
	return &Team{
		ID:         id,
		Name:       name,
		Gold:       gold,
		DeckSlots:  make([]string, deckSize),
		mods:       make(map[ModifierKind]*Modifier),
		roundUsage: make(map[string]int),
		matchUsage: make(map[string]int),
	}
}

// SetModifier installs a modifier, replacing any existing one of the same
// kind.
func (t *Team) SetModifier(mod *Modifier) {
	t.mods[mod.Kind] = mod
}

// Modifier returns the live modifier of the given kind, removing it first
// if its time window has lapsed. Returns nil when none is active.
func (t *Team) Modifier(kind ModifierKind, now time.Time) *Modifier {
	mod, ok := t.mods[kind]
	if !ok {
		return nil
	}
	if mod.expired(now) {
		delete(t.mods, kind)
		return nil
	}
	return mod
}

// ClearModifier removes a modifier slot if present.
func (t *Team) ClearModifier(kind ModifierKind) {
	delete(t.mods, kind)
}

// consume decrements a use-counted modifier and removes it at zero.
// Returns false when the modifier has no uses left.
func (t *Team) consume(kind ModifierKind, now time.Time) bool {
	mod := t.Modifier(kind, now)
	if mod == nil || mod.Remaining <= 0 {
		return false
	}
	mod.Remaining--
	if mod.Remaining <= 0 {
		delete(t.mods, kind)
	}
	return true
}

func (t *Team) clearModifiers() {
	t.mods = make(map[ModifierKind]*Modifier)
}

// HasMember reports whether the session belongs to this team.
func (t *Team) HasMember(sessionID string) bool {
	if t.Writer == sessionID {
		return true
	}
	for _, s := range t.Suggesters {
		if s == sessionID {
			return true
		}
	}
	return false
}

// HasCard reports whether the card sits in a deck slot.
func (t *Team) HasCard(cardID string) bool {
	for _, c := range t.DeckSlots {
		if c == cardID {
			return true
		}
	}
	return false
}
