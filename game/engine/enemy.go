package engine

import (
	"fmt"
	"math/rand"
)

// EnemyKind tags one of the closed set of enemy variants.
type EnemyKind string

const (
	KindWanderer      EnemyKind = "wanderer"
	KindPursuer       EnemyKind = "pursuer"
	KindCharger       EnemyKind = "charger"
	KindAreaUnfreezer EnemyKind = "area-unfreezer"
	KindLineUnfreezer EnemyKind = "line-unfreezer"
)

// EnemyAgent is what the scheduler drives: one movement decision per tick
// plus a broadcast descriptor. The five variants implement it by embedding
// the shared Enemy record.
type EnemyAgent interface {
	Character
	Kind() EnemyKind
	// CalculateMovement runs one tick of the variant's decision algorithm.
	// Move failures are swallowed: the enemy degrades to stopped, the tick
	// never fails.
	CalculateMovement()
	// Update produces the position/orientation/state descriptor broadcast
	// after each tick.
	Update() EnemyUpdate
}

// Enemy is the record shared by all variants: identity, current cell,
// orientation, state tag, and the movement primitives. Variants add only
// their per-tick decision algorithm.
type Enemy struct {
	id        string
	kind      EnemyKind
	board     *Board
	cell      *Cell
	direction Direction
	state     CharacterState
	rng       *rand.Rand
}

func (e *Enemy) ID() string                { return e.id }
func (e *Enemy) Kind() EnemyKind           { return e.kind }
func (e *Enemy) Cell() *Cell               { return e.cell }
func (e *Enemy) SetCell(c *Cell)           { e.cell = c }
func (e *Enemy) Direction() Direction      { return e.direction }
func (e *Enemy) State() CharacterState     { return e.state }
func (e *Enemy) setState(s CharacterState) { e.state = s }

// Killable implements Character. Enemies can never be removed from play.
func (e *Enemy) Killable() bool { return false }

// Die always fails: enemies never die.
func (e *Enemy) Die() bool { return false }

// Reborn is a no-op: an enemy that was never dead has nothing to return to.
func (e *Enemy) Reborn() {}

// canBreakFrozen reports whether this variant melts ice while moving.
func (e *Enemy) canBreakFrozen() bool {
	return e.kind == KindAreaUnfreezer || e.kind == KindLineUnfreezer
}

// ValidateMove checks a single-step destination. It returns ErrNullCell for
// an off-board target and ErrBlockedCell for an immovable item, unbreakable
// ice, or an unkillable occupant. A player occupant is killable, so it does
// not block; it is returned so the move can resolve the encounter.
func (e *Enemy) ValidateMove(target *Cell) (Character, error) {
	if target == nil {
		return nil, ErrNullCell
	}
	if target.Blocked(e.canBreakFrozen()) {
		return nil, ErrBlockedCell
	}
	occupant := target.Character()
	if occupant != nil && !occupant.Killable() {
		return nil, ErrBlockedCell
	}
	return occupant, nil
}

// Move vacates the current cell and occupies target, keeping the enemy's
// cell pointer and the cells' character slots in lock-step. Occupancy is
// re-read immediately before writing: a destination vetted by ValidateMove
// may have been vacated or claimed by another mover since, and only the
// occupant found at write time is acted on. If that occupant is a player the
// encounter is resolved after the swap is committed: the player is told to
// die and, on success, a state update is broadcast.
func (e *Enemy) Move(target *Cell) error {
	if target == nil {
		return ErrNullCell
	}
	occupant := target.Character()
	if occupant != nil && !occupant.Killable() {
		return ErrBlockedCell
	}

	if e.canBreakFrozen() {
		changed := e.board.thawExclusive(func() []FrozenCellUpdate {
			if !target.Frozen() {
				return nil
			}
			target.SetFrozen(false)
			return []FrozenCellUpdate{{X: target.Coord().X, Y: target.Coord().Y, Frozen: false}}
		})
		if len(changed) > 0 {
			e.board.NotifyPlayers(NewFrozenCellsEvent(changed))
		}
	}

	if e.cell != nil {
		e.cell.SetCharacter(nil)
	}
	target.SetCharacter(e)
	e.cell = target

	if occupant != nil {
		// The displaced character no longer holds any cell slot.
		if occupant.Cell() == target {
			occupant.SetCell(nil)
		}
		if occupant.Die() {
			if player, ok := occupant.(*Player); ok {
				e.board.NotifyPlayers(NewStateEvent(player.Update()))
			}
		}
	}
	return nil
}

// MoveAlongPath performs a single step in the given direction, dispatching
// through validation. Failures propagate from ValidateMove.
func (e *Enemy) MoveAlongPath(d Direction) error {
	target := e.cell.Neighbor(d)
	if _, err := e.ValidateMove(target); err != nil {
		return err
	}
	return e.Move(target)
}

// Update produces the enemy's broadcast descriptor.
func (e *Enemy) Update() EnemyUpdate {
	update := EnemyUpdate{
		EnemyID:   e.id,
		Kind:      e.kind,
		Direction: e.direction,
		State:     e.state,
	}
	if e.cell != nil {
		update.Coordinates = e.cell.Coord()
	}
	return update
}

// newEnemyAgent builds the concrete variant for a spawn. The id encodes the
// kind and spawn index for stable, readable identifiers.
func newEnemyAgent(kind EnemyKind, index int, board *Board, rng *rand.Rand) (EnemyAgent, error) {
	base := &Enemy{
		id:        fmt.Sprintf("%s-%d", kind, index),
		kind:      kind,
		board:     board,
		direction: Down,
		state:     StateWalking,
		rng:       rng,
	}
	switch kind {
	case KindWanderer:
		return &Wanderer{Enemy: base}, nil
	case KindPursuer:
		return &DirectPursuer{Enemy: base}, nil
	case KindCharger:
		return &StraightCharger{Enemy: base}, nil
	case KindAreaUnfreezer:
		return &AreaUnfreezer{Enemy: base}, nil
	case KindLineUnfreezer:
		return &LineUnfreezer{Enemy: base}, nil
	}
	return nil, fmt.Errorf("%w: unknown enemy kind %q", ErrInvalidLayout, kind)
}
