package service

import (
	"context"
	"time"

	"github.com/frostpaw/icechase/game/engine"
)

// MatchService defines all match-related operations exposed to transports.
type MatchService interface {
	// Match lifecycle
	CreateMatch(ctx context.Context, req CreateMatchRequest) (*MatchInfo, error)
	GetMatch(ctx context.Context, matchID string) (*MatchInfo, error)
	ListMatches(ctx context.Context) ([]*MatchInfo, error)
	DeleteMatch(ctx context.Context, matchID string) error
	StartMatch(ctx context.Context, matchID string) error

	// Gameplay
	MovePlayer(ctx context.Context, matchID, playerID string, direction engine.Direction) (*MoveResult, error)
	GetMatchUpdate(ctx context.Context, matchID string) (engine.MatchUpdate, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	GetLevel(ctx context.Context, level int) (*LevelInfo, error)
}

// MatchManager defines match registry operations. Create generates the match
// id and uses the factory to wire the board's outbound boundary.
type MatchManager interface {
	Create(hostID, guestID string, layout *engine.Layout, notifiers NotifierFactory) (*engine.Match, error)
	Get(id string) (*engine.Match, error)
	List() []*engine.Match
	Delete(id string) error
	Save(id string) error
	Count() int
}

// LevelManager resolves level layouts. Layout is the exact lookup;
// LayoutForLevel falls back to the default level for unknown numbers.
type LevelManager interface {
	Layout(level int) (*engine.Layout, error)
	LayoutForLevel(level int) *engine.Layout
	ListLevels() []*engine.Layout
}

// NotifierFactory produces the outbound event boundary for one match. The
// websocket hub implements it; tests inject recorders.
type NotifierFactory func(matchID string) engine.Notifier

// CreateMatchRequest carries the external matchmaking inputs.
type CreateMatchRequest struct {
	HostID  string `json:"host_id"`
	GuestID string `json:"guest_id"`
	Level   int    `json:"level"`
}

// MatchInfo is the service-level match descriptor.
type MatchInfo struct {
	ID        string             `json:"id"`
	Level     int                `json:"level"`
	MapName   string             `json:"map"`
	HostID    string             `json:"host_id"`
	GuestID   string             `json:"guest_id"`
	Started   bool               `json:"started"`
	Ended     bool               `json:"ended"`
	CreatedAt time.Time          `json:"created_at"`
	Update    engine.MatchUpdate `json:"update"`
}

// MoveResult reports the outcome of one player step. A blocked or off-board
// step is a rejection, not an error: Success is false and Code names the
// rejection.
type MoveResult struct {
	Success bool               `json:"success"`
	Code    string             `json:"code,omitempty"`
	Update  engine.MatchUpdate `json:"update"`
}

// Move rejection codes.
const (
	MoveRejectedNullCell    = "null-cell"
	MoveRejectedBlockedCell = "blocked-cell"
	MoveRejectedPlayerDead  = "player-dead"
)

// LevelInfo summarizes one selectable level.
type LevelInfo struct {
	Level        int    `json:"level"`
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Enemies      int    `json:"enemies"`
	Fruits       int    `json:"fruits"`
	MatchSeconds int    `json:"match_seconds"`
}
