// Package web is the host-facing admin API. It runs beside the realtime
// transport and drives match rules and round flow over plain HTTP.
package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"quizclash/internal/catalog"
	"quizclash/internal/match"
)

// Server exposes the admin endpoints for one match.
type Server struct {
	match   *match.Match
	catalog *catalog.Catalog
	log     *zap.Logger
	mux     *http.ServeMux
}

// NewServer builds the admin API around a match.
func NewServer(m *match.Match, cat *catalog.Catalog, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{match: m, catalog: cat, log: log, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/state", s.handleState)

	s.mux.HandleFunc("GET /api/rules", s.handleGetRules)
	s.mux.HandleFunc("POST /api/rules/disable", s.handleDisableCard)
	s.mux.HandleFunc("POST /api/rules/enable", s.handleEnableCard)
	s.mux.HandleFunc("POST /api/rules/cost-modifier", s.handleCostModifier)
	s.mux.HandleFunc("POST /api/rules/reset", s.handleResetRules)

	s.mux.HandleFunc("POST /api/round/start", s.handleStartRound)
	s.mux.HandleFunc("POST /api/round/end", s.handleEndRound)
	s.mux.HandleFunc("POST /api/match/reset", s.handleResetMatch)
	s.mux.HandleFunc("POST /api/teams/deck", s.handleSetDeck)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// call runs fn on the match goroutine and blocks until it returns. Admin
// traffic is rare enough that the round trip is fine.
func (s *Server) call(fn func() error) error {
	done := make(chan error, 1)
	s.match.Post(func() { done <- fn() })
	return <-done
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// CardInfo is the JSON representation of a card for the catalog endpoint.
type CardInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Kind         string `json:"kind"`
	BaseGoldCost int    `json:"baseGoldCost"`
	UnlockXP     int    `json:"unlockXp"`
	Target       string `json:"target"`
	EffectType   string `json:"effectType"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, c := range s.catalog.Cards() {
		cards = append(cards, CardInfo{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			Kind:         string(c.Kind),
			BaseGoldCost: c.BaseGoldCost,
			UnlockXP:     c.UnlockXP,
			Target:       string(c.Target),
			EffectType:   string(c.Effect.Type),
		})
	}
	s.writeJSON(w, cards)
}

// StateView is the admin snapshot of a match.
type StateView struct {
	MatchID       string           `json:"matchId"`
	Round         int              `json:"round"`
	TimeRemaining int              `json:"timeRemaining"`
	Gold          map[string]int   `json:"gold"`
	Teams         []match.TeamView `json:"teams"`
	Rules         match.RulesView  `json:"rules"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var view StateView
	s.call(func() error {
		view = StateView{
			MatchID:       s.match.ID,
			Round:         s.match.RoundNumber(),
			TimeRemaining: s.match.TimeRemaining(),
			Gold:          s.match.GoldSnapshot(),
			Teams:         s.match.TeamViews(),
			Rules:         s.match.Rules(),
		}
		return nil
	})
	s.writeJSON(w, view)
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	var rules match.RulesView
	s.call(func() error {
		rules = s.match.Rules()
		return nil
	})
	s.writeJSON(w, rules)
}

type cardRequest struct {
	CardID string `json:"cardId"`
}

func (s *Server) handleDisableCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.call(func() error { return s.match.DisableCard(req.CardID) }); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleEnableCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.call(func() error { return s.match.EnableCard(req.CardID) }); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleCostModifier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID     string  `json:"cardId"`
		Multiplier float64 `json:"multiplier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.call(func() error { return s.match.SetCostModifier(req.CardID, req.Multiplier) }); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleResetRules(w http.ResponseWriter, r *http.Request) {
	s.call(func() error {
		s.match.ResetRules()
		return nil
	})
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	s.call(func() error {
		s.match.StartRound()
		return nil
	})
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleEndRound(w http.ResponseWriter, r *http.Request) {
	s.call(func() error {
		s.match.EndRound()
		return nil
	})
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleResetMatch(w http.ResponseWriter, r *http.Request) {
	s.call(func() error {
		s.match.ResetMatch()
		return nil
	})
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSetDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID string   `json:"teamId"`
		Cards  []string `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.call(func() error { return s.match.SetDeck(req.TeamID, req.Cards) }); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}
