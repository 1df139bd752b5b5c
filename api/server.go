// Package api exposes the match service over REST and hands websocket
// observers to the hub.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/frostpaw/icechase/game/engine"
	"github.com/frostpaw/icechase/game/service"
	"github.com/frostpaw/icechase/transport/websocket"
)

// Server is the REST API server.
type Server struct {
	service service.MatchService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates an API server over the match service and hub.
func NewServer(matchService service.MatchService, hub *websocket.Hub) *Server {
	s := &Server{
		service: matchService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Match lifecycle
	api.HandleFunc("/matches", s.handleCreateMatch).Methods("POST")
	api.HandleFunc("/matches", s.handleListMatches).Methods("GET")
	api.HandleFunc("/matches/{id}", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/matches/{id}", s.handleDeleteMatch).Methods("DELETE")
	api.HandleFunc("/matches/{id}/start", s.handleStartMatch).Methods("POST")

	// Gameplay
	api.HandleFunc("/matches/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/matches/{id}/state", s.handleGetState).Methods("GET")

	// Levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels/{level:[0-9]+}", s.handleGetLevel).Methods("GET")

	// WebSocket observers
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Handlers

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := s.service.CreateMatch(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, match)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.service.ListMatches(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := s.service.GetMatch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, match)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteMatch(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.service.StartMatch(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID  string `json:"player_id"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	direction := engine.Direction(req.Direction)
	if !direction.Valid() {
		respondError(w, http.StatusBadRequest, "invalid direction")
		return
	}

	result, err := s.service.MovePlayer(r.Context(), mux.Vars(r)["id"], req.PlayerID, direction)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	update, err := s.service.GetMatchUpdate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, levels)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid level number")
		return
	}

	level, err := s.service.GetLevel(r.Context(), number)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, level)
}

// handleWebSocket attaches an observer connection to a match.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("match")
	if matchID == "" {
		respondError(w, http.StatusBadRequest, "match parameter required")
		return
	}
	if _, err := s.service.GetMatch(r.Context(), matchID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.ServeWS(w, r, matchID)
}
