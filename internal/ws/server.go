package ws

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizclash/internal/match"
)

// clientMessage is the wire frame for every client-to-server message. Only
// the fields relevant to the named type are populated.
type clientMessage struct {
	Type string `json:"type"`

	// join
	TeamID   string `json:"teamId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Role     string `json:"role,omitempty"`

	// cast_card
	CardID       string `json:"cardId,omitempty"`
	TargetTeamID string `json:"targetTeamId,omitempty"`

	// suggestion
	Text string `json:"text,omitempty"`

	// writer_choice, highlight_choice
	SuggesterSessionID string `json:"suggesterSessionId,omitempty"`

	// deck_swap
	SlotA int `json:"slotA,omitempty"`
	SlotB int `json:"slotB,omitempty"`
}

// Server accepts websocket connections and routes their commands into the
// match loop.
type Server struct {
	hub   *Hub
	match *match.Match
	log   *zap.Logger
	mux   *http.ServeMux
}

// NewServer wires a hub and a match into an HTTP handler.
func NewServer(hub *Hub, m *match.Match, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{hub: hub, match: m, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // clients connect from classroom displays on other origins
	})
	if err != nil {
		s.log.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	// First frame must be a join.
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var joinMsg clientMessage
	if err := json.Unmarshal(data, &joinMsg); err != nil || joinMsg.Type != "join" {
		conn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	role := match.Role(joinMsg.Role)
	switch role {
	case match.RolePlayer, match.RoleHost, match.RoleDisplay:
	default:
		role = match.RolePlayer
	}

	actor := match.Actor{
		SessionID: uuid.NewString(),
		PlayerID:  joinMsg.PlayerID,
		Role:      role,
	}

	sess := &session{
		id:   actor.SessionID,
		conn: conn,
		send: make(chan []byte, 32),
	}
	s.hub.register(sess)
	defer func() {
		s.hub.unregister(sess.id)
		s.match.Post(func() { s.match.LeaveSession(actor.SessionID) })
	}()

	go sess.writePump(ctx)

	// Tell the client its session id so choice replies can reference
	// other sessions by id.
	s.hub.Send(actor.SessionID, "WELCOME", map[string]string{
		"sessionId": actor.SessionID,
		"matchId":   s.match.ID,
	})

	teamID := joinMsg.TeamID
	if role == match.RolePlayer && teamID != "" {
		s.hub.setTeam(actor.SessionID, teamID)
		s.match.Post(func() { s.match.JoinTeam(actor, teamID) })
	}

	s.log.Info("session connected",
		zap.String("session", actor.SessionID),
		zap.String("role", string(role)))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.hub.Send(actor.SessionID, match.EventError,
				match.ErrorPayload{Message: "Malformed message"})
			continue
		}
		s.dispatch(actor, msg)
	}
}

// dispatch routes one client command into the match goroutine. Command
// handlers report failures to the client themselves; errors returned here
// are already delivered.
func (s *Server) dispatch(actor match.Actor, msg clientMessage) {
	switch msg.Type {
	case "cast_card":
		s.match.Post(func() {
			s.match.HandleCastCard(actor, match.CastRequest{
				CardID:       msg.CardID,
				TargetTeamID: msg.TargetTeamID,
			})
		})
	case "suggestion":
		s.match.Post(func() {
			s.match.HandleSuggestion(actor, match.SuggestionRequest{
				TeamID: msg.TeamID,
				Text:   msg.Text,
			})
		})
	case "writer_choice":
		s.match.Post(func() {
			s.match.HandleWriterChoice(actor, msg.SuggesterSessionID)
		})
	case "highlight_choice":
		s.match.Post(func() {
			s.match.HandleHighlightChoice(actor, msg.SuggesterSessionID)
		})
	case "deck_move":
		s.match.Post(func() {
			s.match.HandleDeckMove(actor, msg.CardID)
		})
	case "deck_swap":
		s.match.Post(func() {
			s.match.HandleDeckSwap(actor, msg.SlotA, msg.SlotB)
		})
	default:
		s.hub.Send(actor.SessionID, match.EventError,
			match.ErrorPayload{Message: "Unknown message type"})
	}
}
