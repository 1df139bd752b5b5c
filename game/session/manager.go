// Package session keeps the live match registry and the durable snapshot
// persistence behind it.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/frostpaw/icechase/game/engine"
	"github.com/frostpaw/icechase/game/service"
)

var (
	ErrMatchNotFound = errors.New("match not found")
)

// SnapshotStore persists flat match snapshots, written and read wholesale.
type SnapshotStore interface {
	Save(snapshot engine.MatchSnapshot) error
	Get(id string) (engine.MatchSnapshot, error)
	List() ([]engine.MatchSnapshot, error)
	Delete(id string) error
	Close() error
}

// Manager handles live match lifecycle. Matches live in memory for the
// duration of play; the snapshot store is a write-through cache for the
// external persistence boundary.
type Manager struct {
	matches   map[string]*engine.Match
	snapshots SnapshotStore
	log       *logrus.Entry
	mu        sync.RWMutex
}

// NewManager creates a match manager without persistence.
func NewManager() *Manager {
	return NewManagerWithStore(nil)
}

// NewManagerWithStore creates a match manager that writes snapshots through
// to the given store.
func NewManagerWithStore(snapshots SnapshotStore) *Manager {
	return &Manager{
		matches:   make(map[string]*engine.Match),
		snapshots: snapshots,
		log:       logrus.WithField("component", "match-manager"),
	}
}

// Create builds and registers a match for the layout, generating its id and
// wiring the board's notifier through the factory.
func (m *Manager) Create(hostID, guestID string, layout *engine.Layout, notifiers service.NotifierFactory) (*engine.Match, error) {
	id := uuid.NewString()

	var notifier engine.Notifier
	if notifiers != nil {
		notifier = notifiers(id)
	}

	match, err := engine.NewMatch(id, hostID, guestID, layout, notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to build match: %w", err)
	}

	m.mu.Lock()
	m.matches[id] = match
	m.mu.Unlock()

	if err := m.persist(match); err != nil {
		// Persistence is best-effort; the live match is authoritative.
		m.log.WithError(err).WithField("match", id).Warn("failed to persist new match")
	}
	return match, nil
}

// Get retrieves a live match by id.
func (m *Manager) Get(id string) (*engine.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// List returns all live matches.
func (m *Manager) List() []*engine.Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*engine.Match, 0, len(m.matches))
	for _, match := range m.matches {
		result = append(result, match)
	}
	return result
}

// Delete stops and removes a match, dropping its snapshot too.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	match, ok := m.matches[id]
	if ok {
		delete(m.matches, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrMatchNotFound
	}
	match.Stop()

	if m.snapshots != nil {
		if err := m.snapshots.Delete(id); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
	}
	return nil
}

// Save writes the match's current snapshot through to the store.
func (m *Manager) Save(id string) error {
	match, err := m.Get(id)
	if err != nil {
		return err
	}
	return m.persist(match)
}

// Count returns the number of live matches.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

// CleanupEnded removes matches that ended and are older than maxAge,
// returning how many were dropped. Their snapshots stay in the store for the
// external cache layer.
func (m *Manager) CleanupEnded(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, match := range m.matches {
		if match.Ended() && match.CreatedAt.Before(cutoff) {
			match.Stop()
			delete(m.matches, id)
			removed++
		}
	}
	return removed
}

// PersistedSnapshots lists every snapshot surviving in the store, including
// those of matches no longer live. Snapshots are observational records;
// ended matches are not resurrected into play.
func (m *Manager) PersistedSnapshots() ([]engine.MatchSnapshot, error) {
	if m.snapshots == nil {
		return nil, nil
	}
	return m.snapshots.List()
}

func (m *Manager) persist(match *engine.Match) error {
	if m.snapshots == nil {
		return nil
	}
	snapshot, err := match.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot match: %w", err)
	}
	return m.snapshots.Save(snapshot)
}
