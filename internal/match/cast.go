package match

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quizclash/internal/catalog"
)

// CastError is a player-facing cast rejection. It reaches the caster as an
// ERROR event and is never treated as an engine failure.
type CastError struct {
	Message string
}

func (e *CastError) Error() string { return e.Message }

func castErrorf(format string, args ...any) *CastError {
	return &CastError{Message: fmt.Sprintf(format, args...)}
}

// CastRequest is the inbound cast command.
type CastRequest struct {
	CardID       string `json:"cardId"`
	TargetTeamID string `json:"targetTeamId,omitempty"`
}

// HandleCastCard validates and resolves one cast. Validation failures are
// reported to the caster and returned as *CastError; a panic anywhere in
// resolution is recovered so a bad handler cannot take down the match loop.
func (m *Match) HandleCastCard(actor Actor, req CastRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("cast panicked",
				zap.String("card", req.CardID),
				zap.Any("panic", r))
			m.sendError(actor, "Failed to cast card")
			err = fmt.Errorf("cast %s: panic: %v", req.CardID, r)
		}
	}()

	if actor.Role != RolePlayer {
		m.log.Debug("cast dropped: not a player", zap.String("role", string(actor.Role)))
		return nil
	}

	card, ok := m.catalog.Get(req.CardID)
	if !ok {
		return m.rejectCast(actor, castErrorf("Invalid card"))
	}

	team := m.teamForActor(actor)
	if team == nil {
		return m.rejectCast(actor, castErrorf("You are not in a team"))
	}

	if !team.HasCard(card.ID) {
		return m.rejectCast(actor, castErrorf("Card not in team deck"))
	}

	if m.rules.disabled[card.ID] {
		return m.rejectCast(actor, castErrorf("This card is disabled for this match"))
	}

	if cerr := m.checkUsageLimit(card, team); cerr != nil {
		return m.rejectCast(actor, cerr)
	}

	if !m.isCardUnlocked(actor, card.ID) {
		return m.rejectCast(actor, castErrorf("Card not unlocked"))
	}

	// Cosmetic cards never touch gold and carry no gameplay effect.
	if card.Kind == catalog.KindCosmetic {
		m.bc.Broadcast(EventCardCast, CardCastPayload{
			CardID:       card.ID,
			CasterTeamID: team.ID,
			TargetTeamID: team.ID,
			IsCosmetic:   true,
		})
		return nil
	}

	cost := m.AdjustedCost(card, team)
	if team.Gold < cost {
		return m.rejectCast(actor, castErrorf("Insufficient gold"))
	}

	now := m.now()
	if team.Modifier(ModCastLockout, now) != nil {
		return m.rejectCast(actor, castErrorf("Cannot cast cards right now. Please wait."))
	}

	targetID := team.ID
	if card.Target == catalog.TargetOpponent {
		if req.TargetTeamID == "" || req.TargetTeamID == team.ID {
			return m.rejectCast(actor, castErrorf("Invalid target"))
		}
		if _, ok := m.teams[req.TargetTeamID]; !ok {
			return m.rejectCast(actor, castErrorf("Target team not found"))
		}
		targetID = req.TargetTeamID
	}

	// Bookkeeping before resolution: the refund record must know this
	// cast's cost in case the effect gets blocked downstream.
	if refund := team.Modifier(ModRefundOnBlock, now); refund != nil {
		refund.LastCost = cost
	}
	team.Gold -= cost
	team.consume(ModCostModifier, now)
	team.consume(ModCastInstant, now)
	m.recordUsage(card, team)

	outcome := m.createEffect(card, team.ID, targetID)

	// Recorded after resolution so a recall effect sees the previous cast,
	// not itself.
	team.LastCastCard = card.ID

	m.scores.Award(actor.PlayerID, 1, "cardCast")

	m.bc.Broadcast(EventCardCast, CardCastPayload{
		CardID:       card.ID,
		CasterTeamID: team.ID,
		TargetTeamID: outcome.targetID,
		Reflected:    outcome.reflected,
		Blocked:      outcome.blocked,
	})
	m.broadcastGold()
	m.bc.Broadcast(EventTeamUpdate, m.TeamViews())

	m.log.Info("card cast",
		zap.String("card", card.ID),
		zap.String("caster", team.ID),
		zap.String("target", outcome.targetID),
		zap.Int("cost", cost))
	return nil
}

func (m *Match) rejectCast(actor Actor, cerr *CastError) error {
	m.sendError(actor, cerr.Message)
	return cerr
}

func (m *Match) checkUsageLimit(card *catalog.Card, team *Team) *CastError {
	if card.Limits == nil || card.Limits.PerTeam <= 0 {
		return nil
	}
	var used int
	switch card.Limits.Scope {
	case "round":
		used = team.roundUsage[card.ID]
	default:
		used = team.matchUsage[card.ID]
	}
	if used >= card.Limits.PerTeam {
		return castErrorf("This card can only be used %d time(s) per %s",
			card.Limits.PerTeam, card.Limits.Scope)
	}
	return nil
}

func (m *Match) recordUsage(card *catalog.Card, team *Team) {
	if card.Limits == nil {
		return
	}
	team.roundUsage[card.ID]++
	team.matchUsage[card.ID]++
}

// unlockTimeout bounds the synchronous cache-miss lookup on the cast path.
// Joins pre-warm the cache so this fallback rarely fires.
const unlockTimeout = 2 * time.Second

func (m *Match) isCardUnlocked(actor Actor, cardID string) bool {
	set, ok := m.unlockCache[actor.PlayerID]
	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		cards, err := m.unlocks.UnlockedCards(ctx, actor.PlayerID)
		if err != nil {
			m.log.Warn("unlock lookup failed",
				zap.String("player", actor.PlayerID),
				zap.Error(err))
			return false
		}
		set = unlockSet(cards)
		m.unlockCache[actor.PlayerID] = set
	}
	return set["*"] || set[cardID]
}

// warmUnlocks fetches a player's unlock set off the match goroutine and
// posts the result back into the cache, so the player's first cast does
// not wait on the store.
func (m *Match) warmUnlocks(playerID string) {
	if playerID == "" {
		return
	}
	if _, ok := m.unlockCache[playerID]; ok {
		return
	}
	store := m.unlocks
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		cards, err := store.UnlockedCards(ctx, playerID)
		if err != nil {
			m.log.Warn("unlock prewarm failed",
				zap.String("player", playerID),
				zap.Error(err))
			return
		}
		m.Post(func() {
			if _, ok := m.unlockCache[playerID]; !ok {
				m.unlockCache[playerID] = unlockSet(cards)
			}
		})
	}()
}

func unlockSet(cards []string) map[string]bool {
	set := make(map[string]bool, len(cards))
	for _, c := range cards {
		set[c] = true
	}
	return set
}

// InvalidateUnlocks drops a player's cached unlock set so the next cast
// reloads it. Called when the player earns a new unlock mid-match.
func (m *Match) InvalidateUnlocks(playerID string) {
	delete(m.unlockCache, playerID)
}

// TeamView is the broadcast form of a team.
type TeamView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Gold       int      `json:"gold"`
	DeckSlots  []string `json:"deckSlots"`
	Writer     string   `json:"writer"`
	Suggesters []string `json:"suggesters"`
}

func (m *Match) TeamViews() []TeamView {
	views := make([]TeamView, 0, len(m.order))
	for _, id := range m.order {
		t := m.teams[id]
		views = append(views, TeamView{
			ID:         t.ID,
			Name:       t.Name,
			Gold:       t.Gold,
			DeckSlots:  append([]string(nil), t.DeckSlots...),
			Writer:     t.Writer,
			Suggesters: append([]string(nil), t.Suggesters...),
		})
	}
	return views
}
