package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frostpaw/icechase/game/config"
	"github.com/frostpaw/icechase/game/service"
	"github.com/frostpaw/icechase/game/session"
	"github.com/frostpaw/icechase/transport/websocket"
)

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()

	levels, err := config.NewManager("")
	if err != nil {
		t.Fatalf("failed to create level manager: %v", err)
	}
	manager := session.NewManager()
	hub := websocket.NewHub()
	svc := service.NewMatchService(manager, levels, hub.NotifierFor)

	t.Cleanup(func() {
		for _, match := range manager.List() {
			match.Stop()
		}
	})
	return NewServer(svc, hub), manager
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createMatch(t *testing.T, srv *Server) service.MatchInfo {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/matches", service.CreateMatchRequest{
		HostID:  "alice",
		GuestID: "bob",
		Level:   1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var info service.MatchInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode match info: %v", err)
	}
	return info
}

func TestCreateMatch_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	info := createMatch(t, srv)
	if info.ID == "" || info.Level != 1 {
		t.Errorf("unexpected match info %+v", info)
	}

	// Missing players are rejected.
	rec := doJSON(t, srv, http.MethodPost, "/api/matches", service.CreateMatchRequest{HostID: "alice"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	// Malformed JSON is rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader("{"))
	resp := httptest.NewRecorder()
	srv.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestMatchLifecycle_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createMatch(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/matches", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []service.MatchInfo
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 match, got %d", len(list))
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/matches/"+info.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/matches/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown match, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/matches/"+info.ID+"/start", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/matches/nope/start", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 starting unknown match, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/matches/"+info.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/matches/"+info.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestMove_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createMatch(t, srv)

	move := func(direction string) *httptest.ResponseRecorder {
		return doJSON(t, srv, http.MethodPost, "/api/matches/"+info.ID+"/move", map[string]string{
			"player_id": "alice",
			"direction": direction,
		})
	}

	rec := move("right")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result service.MoveResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if !result.Success {
		t.Errorf("expected successful move, got %+v", result)
	}

	// Blocked moves come back as rejections, still HTTP 200.
	rec = move("up")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result = service.MoveResult{}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Success || result.Code != service.MoveRejectedBlockedCell {
		t.Errorf("expected blocked-cell rejection, got %+v", result)
	}

	if rec := move("sideways"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid direction, got %d", rec.Code)
	}
}

func TestState_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createMatch(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/matches/"+info.ID+"/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var update struct {
		ID    string `json:"id"`
		Level int    `json:"level"`
		Board struct {
			Width int `json:"width"`
		} `json:"board"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&update); err != nil {
		t.Fatalf("failed to decode update: %v", err)
	}
	if update.ID != info.ID || update.Board.Width == 0 {
		t.Errorf("unexpected update %+v", update)
	}
}

func TestListLevels_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/levels", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var levels []service.LevelInfo
	if err := json.NewDecoder(rec.Body).Decode(&levels); err != nil {
		t.Fatalf("failed to decode levels: %v", err)
	}
	if len(levels) != 5 {
		t.Errorf("expected 5 levels, got %d", len(levels))
	}
}

func TestGetLevel_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/levels/3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var level service.LevelInfo
	if err := json.NewDecoder(rec.Body).Decode(&level); err != nil {
		t.Fatalf("failed to decode level: %v", err)
	}
	if level.Level != 3 || level.Width == 0 {
		t.Errorf("unexpected level %+v", level)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/levels/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown level, got %d", rec.Code)
	}
}

func TestWebSocket_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/ws", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without match parameter, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/ws?match=nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown match, got %d", rec.Code)
	}
}
