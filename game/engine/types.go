// Package engine implements the authoritative simulation core of a match:
// the cell grid, items, players, enemy variants, pathfinding queries, and the
// per-enemy tick scheduler. Everything outside this package talks to it
// through the Board/Match surface and the Notifier boundary.
package engine

import "strconv"

// Direction is a cardinal orientation on the grid.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions returns the four cardinal directions in a fixed order. Queries
// that iterate neighbors rely on this order for deterministic results.
func Directions() [4]Direction {
	return [4]Direction{Up, Down, Left, Right}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Delta returns the coordinate offset of a single step in this direction.
// Y grows downward, matching layout row order.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Coord is a grid position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key encodes the coordinate as a pathfinding graph node key.
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + ":" + strconv.Itoa(c.Y)
}

// DirectionTo returns the direction of a single step from c to other, or
// false if other is not an orthogonal neighbor of c.
func (c Coord) DirectionTo(other Coord) (Direction, bool) {
	for _, d := range Directions() {
		dx, dy := d.Delta()
		if c.X+dx == other.X && c.Y+dy == other.Y {
			return d, true
		}
	}
	return "", false
}

// CharacterState is the movement state tag of an enemy.
type CharacterState string

const (
	StateWalking CharacterState = "walking"
	StateStopped CharacterState = "stopped"
	StateRolling CharacterState = "rolling"
)

// PlayerState is the life state of a player.
type PlayerState string

const (
	PlayerAlive PlayerState = "alive"
	PlayerDead  PlayerState = "dead"
)

// Character is a board occupant: a player or an enemy. Cells hold characters
// as non-owning handles; the Board owns their lifetime.
type Character interface {
	ID() string
	Cell() *Cell
	SetCell(c *Cell)
	// Killable reports whether contact can remove the character from play.
	// Players are killable, enemies never are.
	Killable() bool
	// Die asks the character to die, reporting whether it did.
	Die() bool
}
