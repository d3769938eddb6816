// Package ws is the realtime transport: a websocket hub that fans engine
// events out to connected sessions and feeds client commands into the
// match goroutine.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Envelope is the wire frame for every server-to-client message.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// session is one connected websocket client.
type session struct {
	id     string
	teamID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks connected sessions and implements the engine's Broadcaster.
// It is safe for concurrent use; the match goroutine calls the broadcast
// methods while the HTTP handlers register and unregister sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	log      *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		sessions: make(map[string]*session),
		log:      log,
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	if s, ok := h.sessions[id]; ok {
		delete(h.sessions, id)
		close(s.send)
	}
	h.mu.Unlock()
}

// setTeam records which team a session belongs to so team-scoped
// broadcasts can find it.
func (h *Hub) setTeam(sessionID, teamID string) {
	h.mu.Lock()
	if s, ok := h.sessions[sessionID]; ok {
		s.teamID = teamID
	}
	h.mu.Unlock()
}

// Broadcast sends an event to every connected session.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.log.Error("marshal broadcast", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		h.push(s, data)
	}
}

// BroadcastToTeam sends an event to every session on one team.
func (h *Hub) BroadcastToTeam(teamID, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.log.Error("marshal team broadcast", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		if s.teamID == teamID {
			h.push(s, data)
		}
	}
}

// Send sends an event to a single session. Unknown session ids are
// dropped silently; the client may have just disconnected.
func (h *Hub) Send(sessionID, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.log.Error("marshal send", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if ok {
		h.push(s, data)
	}
}

// push hands a frame to the session's write pump without blocking. A
// client that stops draining loses frames rather than stalling the match
// goroutine.
func (h *Hub) push(s *session, data []byte) {
	select {
	case s.send <- data:
	default:
		h.log.Warn("dropping frame for slow client", zap.String("session", s.id))
	}
}

// writePump drains the session's send channel onto the wire. Runs in its
// own goroutine per connection; returns when the channel closes or a
// write fails.
func (s *session) writePump(ctx context.Context) {
	for data := range s.send {
		if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
			return
		}
	}
}
