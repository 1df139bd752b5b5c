package engine

// EventType tags an outbound board event.
type EventType string

const (
	// EventUpdateEnemy carries one enemy's position/orientation/state.
	EventUpdateEnemy EventType = "update-enemy"

	// EventUpdateState carries a player life-state change.
	EventUpdateState EventType = "update-state"

	// EventUpdateFrozenCells carries the change set of a thaw.
	EventUpdateFrozenCells EventType = "update-frozen-cells"

	// EventUpdateAll carries a full board snapshot.
	EventUpdateAll EventType = "update-all"

	// EventUpdateTime carries the match clock.
	EventUpdateTime EventType = "update-time"

	// EventEnd announces the match outcome.
	EventEnd EventType = "end"

	// EventError reports a transport-level failure to observers.
	EventError EventType = "error"
)

// Event is one outbound notification. The payload shape is fixed per type.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Notifier is the outbound boundary of the simulation. The engine emits
// events through it and never learns what transport sits behind it.
// Implementations must not block; the engine fires and forgets.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ev Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ev Event) { f(ev) }

// EnemyUpdate is the per-enemy broadcast descriptor.
type EnemyUpdate struct {
	EnemyID     string         `json:"enemyId"`
	Kind        EnemyKind      `json:"kind"`
	Coordinates Coord          `json:"coordinates"`
	Direction   Direction      `json:"direction"`
	State       CharacterState `json:"state"`
}

// StateUpdate is the player life-state broadcast descriptor.
type StateUpdate struct {
	PlayerID string      `json:"playerId"`
	State    PlayerState `json:"state"`
	Color    string      `json:"color,omitempty"`
}

// FrozenCellUpdate describes one cell's frozen-flag change.
type FrozenCellUpdate struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Frozen bool `json:"frozen"`
}

// TimeUpdate carries the remaining match seconds.
type TimeUpdate struct {
	Remaining int `json:"remaining"`
}

// End reasons.
const (
	EndReasonWin     = "win"
	EndReasonLose    = "lose"
	EndReasonTimeout = "timeout"
)

// EndUpdate announces why the match ended.
type EndUpdate struct {
	Reason string `json:"reason"`
}

// NewEnemyEvent wraps an enemy descriptor into an update-enemy event.
func NewEnemyEvent(update EnemyUpdate) Event {
	return Event{Type: EventUpdateEnemy, Payload: update}
}

// NewStateEvent wraps a player descriptor into an update-state event.
func NewStateEvent(update StateUpdate) Event {
	return Event{Type: EventUpdateState, Payload: update}
}

// NewFrozenCellsEvent wraps a thaw change set into an update-frozen-cells
// event.
func NewFrozenCellsEvent(changed []FrozenCellUpdate) Event {
	return Event{Type: EventUpdateFrozenCells, Payload: changed}
}
