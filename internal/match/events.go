package match

// Broadcaster delivers engine events to connected clients. The websocket hub
// implements it; tests use an in-memory recorder.
type Broadcaster interface {
	// Broadcast sends an event to every client in the match.
	Broadcast(event string, payload any)

	// BroadcastToTeam sends an event to every member of one team.
	BroadcastToTeam(teamID, event string, payload any)

	// Send sends an event to a single session.
	Send(sessionID, event string, payload any)
}

// Server-to-client event names.
const (
	EventCardCast        = "CARD_CAST"
	EventError           = "ERROR"
	EventTimerUpdate     = "TIMER_UPDATE"
	EventGoldUpdate      = "GOLD_UPDATE"
	EventTeamUpdate      = "TEAM_UPDATE"
	EventRulesUpdate     = "CARD_RULES_UPDATE"
	EventSuggestion      = "SUGGESTION"
	EventPanelHidden     = "SUGGESTION_PANEL_HIDDEN"
	EventPanelVisible    = "SUGGESTION_PANEL_VISIBLE"
	EventQueueCleared    = "SUGGESTION_QUEUE_CLEARED"
	EventDeckShuffled    = "DECK_SHUFFLED"
	EventDeckUpdate      = "DECK_UPDATE"
	EventEffectsCleansed = "EFFECTS_CLEANSED"
	EventWriterRotated   = "WRITER_ROTATED"
	EventSwapScheduled   = "WRITER_SWAP_SCHEDULED"
	EventRoundStarted    = "ROUND_STARTED"
	EventRoundEnded      = "ROUND_ENDED"
	EventMatchReset      = "MATCH_RESET"

	// Choice requests sent to a single session.
	EventWriterChoiceRequest = "WRITER_CHOICE_REQUEST"
	EventHighlightRequest    = "SUGGESTER_HIGHLIGHT_REQUEST"
	EventDeckCardChoiceReq   = "DECK_CARD_CHOICE_REQUEST"
	EventDeckSlotSwapRequest = "DECK_SLOT_SWAP_REQUEST"
)

// CardCastPayload is broadcast when a cast resolves.
type CardCastPayload struct {
	CardID       string `json:"cardId"`
	CasterTeamID string `json:"casterTeamId"`
	TargetTeamID string `json:"targetTeamId"`
	IsCosmetic   bool   `json:"isCosmetic,omitempty"`
	Reflected    bool   `json:"reflected,omitempty"`
	Blocked      bool   `json:"blocked,omitempty"`
}

// ErrorPayload carries a player-facing failure message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// TimerPayload is broadcast on any timer change.
type TimerPayload struct {
	TimeRemaining int  `json:"timeRemaining"`
	Enabled       bool `json:"enabled"`
}

// GoldPayload mirrors each team's gold. Team balances are the source of
// truth; this map is derived from them at broadcast time.
type GoldPayload struct {
	Gold map[string]int `json:"gold"`
}
