package engine

import (
	"fmt"
	"time"
)

// Layout legend characters.
const (
	tileFloor      = '.'
	tileRock       = '#'
	tileFruit      = 'F'
	tileFrozen     = '*'
	tileHostStart  = '1'
	tileGuestStart = '2'
)

// enemyTiles maps layout characters to enemy kinds.
var enemyTiles = map[rune]EnemyKind{
	'W': KindWanderer,
	'P': KindPursuer,
	'C': KindCharger,
	'A': KindAreaUnfreezer,
	'L': KindLineUnfreezer,
}

// EnemySpawn places one enemy variant at a start coordinate.
type EnemySpawn struct {
	Kind EnemyKind
	At   Coord
}

// Layout is the level input: an ASCII map plus the fruit round sequence and
// pacing. Built-in levels are compiled in; game/config can load extra ones
// from files. Derived fields are populated by Parse.
type Layout struct {
	Name         string      `json:"name" yaml:"name"`
	Level        int         `json:"level" yaml:"level"`
	Rows         []string    `json:"rows" yaml:"rows"`
	FruitTypes   []FruitType `json:"fruit_types" yaml:"fruit_types"`
	EnemyTickMs  int         `json:"enemy_tick_ms" yaml:"enemy_tick_ms"`
	MatchSeconds int         `json:"match_seconds" yaml:"match_seconds"`

	width, height int
	playerStarts  []Coord
	enemies       []EnemySpawn
	fruits        []Coord
	rocks         []Coord
	frozen        []Coord
	parsed        bool
}

// Parse validates the layout and derives coordinates from the ASCII rows.
// A malformed layout is a programmer/config error and fatal to match
// creation; every failure wraps ErrInvalidLayout.
func (l *Layout) Parse() error {
	if l.parsed {
		return nil
	}
	if len(l.Rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	if l.EnemyTickMs <= 0 {
		return fmt.Errorf("%w: enemy tick must be positive, got %d", ErrInvalidLayout, l.EnemyTickMs)
	}
	if l.MatchSeconds <= 0 {
		return fmt.Errorf("%w: match duration must be positive, got %d", ErrInvalidLayout, l.MatchSeconds)
	}
	if len(l.FruitTypes) == 0 {
		return fmt.Errorf("%w: at least one fruit round required", ErrInvalidLayout)
	}
	for _, ft := range l.FruitTypes {
		if !knownFruit(ft) {
			return fmt.Errorf("%w: %q", ErrFruitTypeNotDefined, ft)
		}
	}

	l.width = len(l.Rows[0])
	l.height = len(l.Rows)
	l.playerStarts = nil
	l.enemies = nil
	l.fruits = nil
	l.rocks = nil
	l.frozen = nil

	hostSeen, guestSeen := false, false
	var hostStart, guestStart Coord
	for y, row := range l.Rows {
		if len(row) != l.width {
			return fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidLayout, y, len(row), l.width)
		}
		for x, tile := range row {
			at := Coord{X: x, Y: y}
			switch tile {
			case tileFloor:
			case tileRock:
				l.rocks = append(l.rocks, at)
			case tileFruit:
				l.fruits = append(l.fruits, at)
			case tileFrozen:
				l.frozen = append(l.frozen, at)
			case tileHostStart:
				if hostSeen {
					return fmt.Errorf("%w: duplicate host start", ErrInvalidLayout)
				}
				hostSeen = true
				hostStart = at
			case tileGuestStart:
				if guestSeen {
					return fmt.Errorf("%w: duplicate guest start", ErrInvalidLayout)
				}
				guestSeen = true
				guestStart = at
			default:
				kind, ok := enemyTiles[tile]
				if !ok {
					return fmt.Errorf("%w: unknown tile %q at (%d,%d)", ErrInvalidLayout, string(tile), x, y)
				}
				l.enemies = append(l.enemies, EnemySpawn{Kind: kind, At: at})
			}
		}
	}
	if !hostSeen || !guestSeen {
		return fmt.Errorf("%w: both player starts required", ErrInvalidLayout)
	}
	if len(l.fruits) == 0 {
		return fmt.Errorf("%w: at least one fruit required", ErrInvalidLayout)
	}
	l.playerStarts = []Coord{hostStart, guestStart}

	l.parsed = true
	return nil
}

// Width returns the parsed grid width.
func (l *Layout) Width() int { return l.width }

// Height returns the parsed grid height.
func (l *Layout) Height() int { return l.height }

// PlayerStarts returns the host and guest start coordinates, in that order.
func (l *Layout) PlayerStarts() (host, guest Coord) {
	return l.playerStarts[0], l.playerStarts[1]
}

// Enemies returns the enemy spawns in row-major order.
func (l *Layout) Enemies() []EnemySpawn { return l.enemies }

// Fruits returns the fruit coordinates in row-major order.
func (l *Layout) Fruits() []Coord { return l.fruits }

// Rocks returns the rock coordinates in row-major order.
func (l *Layout) Rocks() []Coord { return l.rocks }

// FrozenCells returns the initially frozen coordinates in row-major order.
func (l *Layout) FrozenCells() []Coord { return l.frozen }

// EnemyTick returns the per-enemy scheduling interval.
func (l *Layout) EnemyTick() time.Duration {
	return time.Duration(l.EnemyTickMs) * time.Millisecond
}

// Clone returns an unparsed copy of the layout's input data. Built-in levels
// hand out clones so concurrent matches never share derived state.
func (l *Layout) Clone() *Layout {
	return &Layout{
		Name:         l.Name,
		Level:        l.Level,
		Rows:         append([]string(nil), l.Rows...),
		FruitTypes:   append([]FruitType(nil), l.FruitTypes...),
		EnemyTickMs:  l.EnemyTickMs,
		MatchSeconds: l.MatchSeconds,
	}
}

func knownFruit(ft FruitType) bool {
	for _, known := range KnownFruitTypes {
		if known == ft {
			return true
		}
	}
	return false
}
