package match

import (
	"time"

	"go.uber.org/zap"
)

// shuffleDeck reorders a team's filled slots with Fisher-Yates and packs
// empties at the end.
func (m *Match) shuffleDeck(team *Team) {
	var cards []string
	for _, c := range team.DeckSlots {
		if c != "" {
			cards = append(cards, c)
		}
	}
	if len(cards) == 0 {
		return
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := m.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	for i := range team.DeckSlots {
		if i < len(cards) {
			team.DeckSlots[i] = cards[i]
		} else {
			team.DeckSlots[i] = ""
		}
	}
	m.bc.BroadcastToTeam(team.ID, EventDeckShuffled, struct{}{})
	m.bc.BroadcastToTeam(team.ID, EventDeckUpdate, map[string]any{
		"deckSlots": append([]string(nil), team.DeckSlots...),
	})
}

// moveCardToTop pulls a card out of its slot and reinserts it at slot 0.
func moveCardToTop(team *Team, cardID string) bool {
	idx := -1
	for i, c := range team.DeckSlots {
		if c == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	copy(team.DeckSlots[1:idx+1], team.DeckSlots[:idx])
	team.DeckSlots[0] = cardID
	return true
}

// Deck/casting effect handlers.

func handleDeckShuffle(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil {
		return
	}
	m.shuffleDeck(target)
}

func handleDeckMoveCard(m *Match, ef *ActiveEffect) {
	caster := m.teams[ef.CasterTeamID]
	if caster == nil || caster.Writer == "" {
		return
	}
	var filled []string
	for _, c := range caster.DeckSlots {
		if c != "" {
			filled = append(filled, c)
		}
	}
	caster.pendingDeckMove = true
	m.bc.Send(caster.Writer, EventDeckCardChoiceReq, map[string]any{
		"teamId":    caster.ID,
		"deckCards": filled,
	})
}

func handleDeckSwapSlots(m *Match, ef *ActiveEffect) {
	caster := m.teams[ef.CasterTeamID]
	if caster == nil || caster.Writer == "" {
		return
	}
	caster.pendingSlotSwap = true
	m.bc.Send(caster.Writer, EventDeckSlotSwapRequest, map[string]any{
		"teamId":    caster.ID,
		"deckSlots": append([]string(nil), caster.DeckSlots...),
	})
}

// handleDeckRecall returns the team's last cast card to the top slot. The
// once-per-round limit lives on the card definition and is enforced by the
// cast path.
func handleDeckRecall(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || target.LastCastCard == "" {
		return
	}
	if !moveCardToTop(target, target.LastCastCard) {
		m.log.Debug("recall target not in deck",
			zap.String("team", target.ID),
			zap.String("card", target.LastCastCard))
		return
	}
	m.bc.BroadcastToTeam(target.ID, EventDeckUpdate, map[string]any{
		"deckSlots": append([]string(nil), target.DeckSlots...),
	})
}

func handleCastLockout(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.DurationSeconds <= 0 {
		return
	}
	target.SetModifier(&Modifier{
		Kind:      ModCastLockout,
		Remaining: ef.Params.CardCount,
		ExpiresAt: m.now().Add(time.Duration(ef.Params.DurationSeconds) * time.Second),
	})
}

func handleCastInstant(m *Match, ef *ActiveEffect) {
	target := m.teams[ef.TargetTeamID]
	if target == nil || ef.Params.CardCount <= 0 {
		return
	}
	target.SetModifier(&Modifier{Kind: ModCastInstant, Remaining: ef.Params.CardCount})
}

// Choice answers.

// HandleDeckMove applies the writer's pick from a stack-the-top request.
func (m *Match) HandleDeckMove(actor Actor, cardID string) error {
	team := m.teamForActor(actor)
	if team == nil || team.Writer != actor.SessionID {
		return castErrorf("Only the writer can choose")
	}
	if !team.pendingDeckMove {
		return castErrorf("No deck choice pending")
	}
	team.pendingDeckMove = false
	if !moveCardToTop(team, cardID) {
		return castErrorf("Card not in team deck")
	}
	m.bc.BroadcastToTeam(team.ID, EventDeckUpdate, map[string]any{
		"deckSlots": append([]string(nil), team.DeckSlots...),
	})
	return nil
}

// HandleDeckSwap applies the writer's slot pair from a swap-slots request.
func (m *Match) HandleDeckSwap(actor Actor, slotA, slotB int) error {
	team := m.teamForActor(actor)
	if team == nil || team.Writer != actor.SessionID {
		return castErrorf("Only the writer can choose")
	}
	if !team.pendingSlotSwap {
		return castErrorf("No deck choice pending")
	}
	if slotA < 0 || slotA >= len(team.DeckSlots) || slotB < 0 || slotB >= len(team.DeckSlots) || slotA == slotB {
		return castErrorf("Invalid slots")
	}
	team.pendingSlotSwap = false
	team.DeckSlots[slotA], team.DeckSlots[slotB] = team.DeckSlots[slotB], team.DeckSlots[slotA]
	m.bc.BroadcastToTeam(team.ID, EventDeckUpdate, map[string]any{
		"deckSlots": append([]string(nil), team.DeckSlots...),
	})
	return nil
}

// SetDeck fills a team's slots from a card list, validating ids against
// the catalog. Extra entries beyond the slot count are dropped.
func (m *Match) SetDeck(teamID string, cardIDs []string) error {
	team, ok := m.teams[teamID]
	if !ok {
		return castErrorf("Team not found")
	}
	for i := range team.DeckSlots {
		team.DeckSlots[i] = ""
	}
	for i, id := range cardIDs {
		if i >= len(team.DeckSlots) {
			break
		}
		if _, ok := m.catalog.Get(id); !ok {
			return castErrorf("Invalid card id: %s", id)
		}
		team.DeckSlots[i] = id
	}
	m.bc.BroadcastToTeam(team.ID, EventDeckUpdate, map[string]any{
		"deckSlots": append([]string(nil), team.DeckSlots...),
	})
	return nil
}
