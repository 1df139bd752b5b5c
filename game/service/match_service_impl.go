package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frostpaw/icechase/game/engine"
)

// matchServiceImpl implements the MatchService interface.
type matchServiceImpl struct {
	matches   MatchManager
	levels    LevelManager
	notifiers NotifierFactory
	log       *logrus.Entry
	mu        sync.RWMutex
}

// NewMatchService creates a match service. The notifier factory wires each
// new board to its outbound transport; a nil factory disables broadcasting.
func NewMatchService(matches MatchManager, levels LevelManager, notifiers NotifierFactory) MatchService {
	return &matchServiceImpl{
		matches:   matches,
		levels:    levels,
		notifiers: notifiers,
		log:       logrus.WithField("component", "match-service"),
	}
}

// CreateMatch builds a match for the requested level. Unknown level numbers
// fall back to level 1; a malformed layout fails creation.
func (s *matchServiceImpl) CreateMatch(ctx context.Context, req CreateMatchRequest) (*MatchInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.HostID == "" || req.GuestID == "" {
		return nil, fmt.Errorf("%w: host and guest required", engine.ErrUserNotDefined)
	}

	layout := s.levels.LayoutForLevel(req.Level)

	match, err := s.matches.Create(req.HostID, req.GuestID, layout, s.notifiers)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"match": match.ID,
		"level": match.Level,
	}).Info("match created")

	return s.matchInfo(match), nil
}

// GetMatch retrieves a match descriptor.
func (s *matchServiceImpl) GetMatch(ctx context.Context, matchID string) (*MatchInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("match not found: %w", err)
	}
	return s.matchInfo(match), nil
}

// ListMatches returns descriptors for every registered match.
func (s *matchServiceImpl) ListMatches(ctx context.Context) ([]*MatchInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := s.matches.List()
	result := make([]*MatchInfo, 0, len(matches))
	for _, m := range matches {
		result = append(result, s.matchInfo(m))
	}
	return result, nil
}

// DeleteMatch stops a match and removes it from the registry.
func (s *matchServiceImpl) DeleteMatch(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match, err := s.matches.Get(matchID); err == nil {
		match.Stop()
	}
	return s.matches.Delete(matchID)
}

// StartMatch activates enemy ticking and the match clock. The drivers run on
// the background context, not the request's: the match outlives the call.
func (s *matchServiceImpl) StartMatch(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := s.matches.Get(matchID)
	if err != nil {
		return fmt.Errorf("match not found: %w", err)
	}
	match.Start(context.Background())

	if err := s.matches.Save(matchID); err != nil {
		s.log.WithError(err).WithField("match", matchID).Warn("failed to persist match after start")
	}
	return nil
}

// MovePlayer performs one player step. Movement rejections degrade to an
// unsuccessful result; only unknown matches or players are errors.
func (s *matchServiceImpl) MovePlayer(ctx context.Context, matchID, playerID string, direction engine.Direction) (*MoveResult, error) {
	s.mu.RLock()
	match, err := s.matches.Get(matchID)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("match not found: %w", err)
	}

	result := &MoveResult{Success: true}
	if err := match.Board.MovePlayer(playerID, direction); err != nil {
		switch {
		case errors.Is(err, engine.ErrNullCell):
			result.Success, result.Code = false, MoveRejectedNullCell
		case errors.Is(err, engine.ErrBlockedCell):
			result.Success, result.Code = false, MoveRejectedBlockedCell
		case errors.Is(err, engine.ErrPlayerDead):
			result.Success, result.Code = false, MoveRejectedPlayerDead
		default:
			return nil, err
		}
	}
	result.Update = match.Update()

	if err := s.matches.Save(matchID); err != nil {
		s.log.WithError(err).WithField("match", matchID).Warn("failed to persist match after move")
	}
	return result, nil
}

// GetMatchUpdate returns the full snapshot consumed by observers.
func (s *matchServiceImpl) GetMatchUpdate(ctx context.Context, matchID string) (engine.MatchUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, err := s.matches.Get(matchID)
	if err != nil {
		return engine.MatchUpdate{}, fmt.Errorf("match not found: %w", err)
	}
	return match.Update(), nil
}

// ListLevels summarizes the selectable levels.
func (s *matchServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	layouts := s.levels.ListLevels()
	result := make([]*LevelInfo, 0, len(layouts))
	for _, l := range layouts {
		if err := l.Parse(); err != nil {
			s.log.WithError(err).WithField("level", l.Level).Warn("skipping invalid level")
			continue
		}
		result = append(result, levelInfo(l))
	}
	return result, nil
}

// GetLevel summarizes one level by exact number; unknown numbers do not fall
// back here, they propagate the lookup error.
func (s *matchServiceImpl) GetLevel(ctx context.Context, level int) (*LevelInfo, error) {
	layout, err := s.levels.Layout(level)
	if err != nil {
		return nil, err
	}
	if err := layout.Parse(); err != nil {
		return nil, err
	}
	return levelInfo(layout), nil
}

func levelInfo(l *engine.Layout) *LevelInfo {
	return &LevelInfo{
		Level:        l.Level,
		Name:         l.Name,
		Width:        l.Width(),
		Height:       l.Height(),
		Enemies:      len(l.Enemies()),
		Fruits:       len(l.Fruits()),
		MatchSeconds: l.MatchSeconds,
	}
}

func (s *matchServiceImpl) matchInfo(m *engine.Match) *MatchInfo {
	return &MatchInfo{
		ID:        m.ID,
		Level:     m.Level,
		MapName:   m.MapName,
		HostID:    m.HostID,
		GuestID:   m.GuestID,
		Started:   m.Started(),
		Ended:     m.Ended(),
		CreatedAt: m.CreatedAt,
		Update:    m.Update(),
	}
}
