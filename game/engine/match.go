package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Match composes one board with the two player identities and the match
// clock. The external transport consumes it through Update snapshots and the
// Notifier events the board emits.
type Match struct {
	ID        string
	Level     int
	MapName   string
	HostID    string
	GuestID   string
	Board     *Board
	CreatedAt time.Time

	mu        sync.Mutex
	remaining int
	started   bool
	ended     bool
	cancel    context.CancelFunc
	scheduler *Scheduler
	log       *logrus.Entry
}

// NewMatch builds a match for a level layout. Layout problems surface here,
// before any ticking begins, and fail match creation.
func NewMatch(id, hostID, guestID string, layout *Layout, notifier Notifier) (*Match, error) {
	board, err := NewBoard(layout, hostID, guestID, notifier)
	if err != nil {
		return nil, err
	}
	return &Match{
		ID:        id,
		Level:     layout.Level,
		MapName:   layout.Name,
		HostID:    hostID,
		GuestID:   guestID,
		Board:     board,
		CreatedAt: time.Now(),
		remaining: layout.MatchSeconds,
		log: logrus.WithFields(logrus.Fields{
			"match": id,
			"level": layout.Level,
		}),
	}, nil
}

// Start activates enemy ticking and the match clock. Starting twice is a
// no-op.
func (m *Match) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.scheduler = NewScheduler(m.Board, m.Board.Layout().EnemyTick(), m.log)
	m.scheduler.Start(runCtx)
	go m.clock(runCtx)
	m.log.Info("match started")
}

// Stop cancels every enemy driver and the clock. Drivers observe the
// cancellation at their next tick boundary.
func (m *Match) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Started reports whether the match has been activated.
func (m *Match) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Ended reports whether the match has emitted its end event.
func (m *Match) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

// Remaining returns the match time left in seconds.
func (m *Match) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// clock decrements the remaining time once per second, broadcasting time
// updates and watching for the end of the match. Win, loss, and timeout all
// land here so the end event is emitted exactly once.
func (m *Match) clock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if reason, over := m.outcome(); over {
			m.end(reason)
			return
		}

		m.mu.Lock()
		m.remaining--
		remaining := m.remaining
		m.mu.Unlock()

		m.Board.NotifyPlayers(Event{Type: EventUpdateTime, Payload: TimeUpdate{Remaining: remaining}})

		if remaining <= 0 {
			m.end(EndReasonTimeout)
			return
		}
	}
}

// outcome resolves the board's win/lose checks into an end reason.
func (m *Match) outcome() (string, bool) {
	if m.Board.CheckWin() {
		return EndReasonWin, true
	}
	if m.Board.CheckLose() {
		return EndReasonLose, true
	}
	return "", false
}

// end broadcasts the end event and stops all drivers.
func (m *Match) end(reason string) {
	m.mu.Lock()
	if m.ended {
		m.mu.Unlock()
		return
	}
	m.ended = true
	m.mu.Unlock()

	m.Board.NotifyPlayers(Event{Type: EventEnd, Payload: EndUpdate{Reason: reason}})
	m.log.WithField("reason", reason).Info("match ended")
	m.Stop()
}

// MatchUpdate is the full snapshot consumed by external observers.
type MatchUpdate struct {
	ID      string   `json:"id"`
	Level   int      `json:"level"`
	MapName string   `json:"map"`
	Time    int      `json:"time"`
	Started bool     `json:"started"`
	Board   BoardDTO `json:"board"`
}

// Update produces the match's full snapshot.
func (m *Match) Update() MatchUpdate {
	m.mu.Lock()
	remaining := m.remaining
	started := m.started
	m.mu.Unlock()

	return MatchUpdate{
		ID:      m.ID,
		Level:   m.Level,
		MapName: m.MapName,
		Time:    remaining,
		Started: started,
		Board:   m.Board.DTO(),
	}
}

// MatchSnapshot is the flat persistence record written and read wholesale by
// the snapshot store.
type MatchSnapshot struct {
	ID           string `json:"id"`
	Level        int    `json:"level"`
	MapName      string `json:"map"`
	Remaining    int    `json:"remaining"`
	FruitsLeft   int    `json:"fruitsLeft"`
	FruitsPicked int    `json:"fruitsPicked"`
	RoundsLeft   int    `json:"roundsLeft"`
	Host         string `json:"host"`
	Guest        string `json:"guest"`
	Board        string `json:"board"`
	CreatedAt    int64  `json:"createdAt"`
}

// Snapshot produces the match's flat persistence record. Player and board
// state are serialized wholesale, not incrementally.
func (m *Match) Snapshot() (MatchSnapshot, error) {
	host, err := json.Marshal(m.Board.Host().DTO())
	if err != nil {
		return MatchSnapshot{}, err
	}
	guest, err := json.Marshal(m.Board.Guest().DTO())
	if err != nil {
		return MatchSnapshot{}, err
	}
	board, err := json.Marshal(m.Board.DTO())
	if err != nil {
		return MatchSnapshot{}, err
	}

	return MatchSnapshot{
		ID:           m.ID,
		Level:        m.Level,
		MapName:      m.MapName,
		Remaining:    m.Remaining(),
		FruitsLeft:   m.Board.FruitsLeft(),
		FruitsPicked: m.Board.FruitsPicked(),
		RoundsLeft:   m.Board.RoundsLeft(),
		Host:         string(host),
		Guest:        string(guest),
		Board:        string(board),
		CreatedAt:    m.CreatedAt.Unix(),
	}, nil
}
