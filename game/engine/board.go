package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Board owns the cell grid, the enemy roster, the two players, and the fruit
// round bookkeeping. It is shared by every enemy driver and the match clock;
// only the freeze-mutation path is lock-protected, all other mutation is
// tick-granular by construction (a mover only touches its own current and
// target cell, and re-validates occupancy before writing).
type Board struct {
	layout   *Layout
	notifier Notifier
	rng      *rand.Rand

	width, height int
	cells         [][]*Cell

	host  *Player
	guest *Player

	enemies    map[string]EnemyAgent
	enemyOrder []string

	// freezeMu serializes every multi-cell frozen-state mutation across the
	// whole board, so two concurrently ticking unfreezers can never observe
	// or double-broadcast a half-applied thaw.
	freezeMu sync.Mutex

	// fruit bookkeeping: pendingRounds[0] is the active round's type.
	fruitsPerRound int
	fruitsLeft     int
	pendingRounds  []FruitType
	fruitsPicked   int

	playersMu sync.Mutex
}

// NewBoard constructs and initializes a board from a parsed layout. The host
// and guest identities come from match creation; the notifier is the injected
// outbound boundary (nil is tolerated and means no broadcasts).
func NewBoard(layout *Layout, hostID, guestID string, notifier Notifier) (*Board, error) {
	if err := layout.Parse(); err != nil {
		return nil, err
	}

	b := &Board{
		layout:   layout,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		width:    layout.Width(),
		height:   layout.Height(),
		host:     NewPlayer(hostID, "mint"),
		guest:    NewPlayer(guestID, "berry"),
		enemies:  make(map[string]EnemyAgent),
	}
	if err := b.initialize(); err != nil {
		return nil, err
	}
	return b, nil
}

// initialize creates the cells, wires neighbor links, and populates items,
// frozen state, players, and enemies from the layout.
func (b *Board) initialize() error {
	b.cells = make([][]*Cell, b.height)
	for y := 0; y < b.height; y++ {
		b.cells[y] = make([]*Cell, b.width)
		for x := 0; x < b.width; x++ {
			b.cells[y][x] = NewCell(x, y)
		}
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cell := b.cells[y][x]
			for _, d := range Directions() {
				dx, dy := d.Delta()
				cell.link(d, b.CellAt(x+dx, y+dy))
			}
		}
	}

	for _, at := range b.layout.Rocks() {
		rock, err := NewItem(ItemRock, "")
		if err != nil {
			return err
		}
		b.cells[at.Y][at.X].SetItem(rock)
	}
	for _, at := range b.layout.FrozenCells() {
		b.cells[at.Y][at.X].SetFrozen(true)
	}

	b.pendingRounds = append([]FruitType(nil), b.layout.FruitTypes...)
	b.fruitsPerRound = len(b.layout.Fruits())
	b.spawnFruitRound()

	hostAt, guestAt := b.layout.PlayerStarts()
	b.placeCharacter(b.host, hostAt)
	b.placeCharacter(b.guest, guestAt)

	for i, spawn := range b.layout.Enemies() {
		agent, err := newEnemyAgent(spawn.Kind, i, b, b.rng)
		if err != nil {
			return err
		}
		b.placeCharacter(agent, spawn.At)
		b.enemies[agent.ID()] = agent
		b.enemyOrder = append(b.enemyOrder, agent.ID())
	}
	return nil
}

func (b *Board) placeCharacter(ch Character, at Coord) {
	cell := b.cells[at.Y][at.X]
	cell.SetCharacter(ch)
	ch.SetCell(cell)
}

// spawnFruitRound places the active round's fruit type on every fruit
// coordinate that is not currently occupied by an item.
func (b *Board) spawnFruitRound() {
	if len(b.pendingRounds) == 0 {
		return
	}
	kind := b.pendingRounds[0]
	for _, at := range b.layout.Fruits() {
		cell := b.cells[at.Y][at.X]
		if cell.Item() == nil {
			cell.SetItem(&Fruit{Kind: kind})
		}
	}
	b.fruitsLeft = b.fruitsPerRound
}

// CellAt returns the cell at (x,y), nil when off the board.
func (b *Board) CellAt(x, y int) *Cell {
	if y < 0 || y >= b.height || x < 0 || x >= b.width {
		return nil
	}
	return b.cells[y][x]
}

// Width returns the grid width.
func (b *Board) Width() int { return b.width }

// Height returns the grid height.
func (b *Board) Height() int { return b.height }

// Layout returns the level layout backing this board.
func (b *Board) Layout() *Layout { return b.layout }

// Host returns the host player.
func (b *Board) Host() *Player { return b.host }

// Guest returns the guest player.
func (b *Board) Guest() *Player { return b.guest }

// Player resolves a player by id.
func (b *Board) Player(id string) (*Player, error) {
	switch id {
	case b.host.ID():
		return b.host, nil
	case b.guest.ID():
		return b.guest, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotDefined, id)
}

// Enemies returns the enemy agents in spawn order.
func (b *Board) Enemies() []EnemyAgent {
	agents := make([]EnemyAgent, 0, len(b.enemyOrder))
	for _, id := range b.enemyOrder {
		agents = append(agents, b.enemies[id])
	}
	return agents
}

// Enemy resolves an enemy agent by id.
func (b *Board) Enemy(id string) (EnemyAgent, bool) {
	agent, ok := b.enemies[id]
	return agent, ok
}

// NotifyPlayers forwards a state-change event to the injected transport.
// Fire-and-forget from the board's perspective.
func (b *Board) NotifyPlayers(ev Event) {
	if b.notifier != nil {
		b.notifier.Notify(ev)
	}
}

// thawExclusive runs a frozen-state mutation under the board-wide freeze
// mutex and returns its change set. At most one such mutation proceeds at a
// time across the whole board.
func (b *Board) thawExclusive(mutate func() []FrozenCellUpdate) []FrozenCellUpdate {
	b.freezeMu.Lock()
	defer b.freezeMu.Unlock()
	return mutate()
}

// consumeFruit picks a fruit off the cell and advances the round bookkeeping.
// Collecting the last fruit of a round respawns the next round (broadcasting
// a full snapshot) or, on the final round, completes the win condition.
func (b *Board) consumeFruit(cell *Cell) {
	item := cell.PickItem()
	if item == nil {
		return
	}
	b.fruitsPicked++
	b.fruitsLeft--
	if b.fruitsLeft > 0 {
		return
	}
	b.pendingRounds = b.pendingRounds[1:]
	if len(b.pendingRounds) == 0 {
		return
	}
	b.spawnFruitRound()
	b.NotifyPlayers(Event{Type: EventUpdateAll, Payload: b.DTO()})
}

// FruitsLeft returns the uncollected fruit count of the active round.
func (b *Board) FruitsLeft() int { return b.fruitsLeft }

// FruitsPicked returns the total fruits collected across all rounds.
func (b *Board) FruitsPicked() int { return b.fruitsPicked }

// RoundsLeft returns the number of fruit rounds not yet cleared.
func (b *Board) RoundsLeft() int { return len(b.pendingRounds) }

// ActiveFruit returns the active round's fruit type, false after the win.
func (b *Board) ActiveFruit() (FruitType, bool) {
	if len(b.pendingRounds) == 0 {
		return "", false
	}
	return b.pendingRounds[0], true
}

// CheckWin reports whether every fruit of every round has been collected.
func (b *Board) CheckWin() bool {
	return len(b.pendingRounds) == 0
}

// CheckLose reports whether the match is lost: a caught player can be
// revived by a living partner, so the loss lands when both players are dead.
func (b *Board) CheckLose() bool {
	return !b.host.Alive() && !b.guest.Alive()
}

// MovePlayer performs one player step, mirroring the enemy validate/move
// contract: ErrNullCell off-board, ErrBlockedCell for rocks, unbroken ice, or
// a living partner. Stepping into an enemy's cell kills the player in place;
// stepping onto a dead partner revives them. A fruit on the destination is
// collected. The playersMu keeps the two players' moves tick-granular with
// respect to each other.
func (b *Board) MovePlayer(playerID string, d Direction) error {
	player, err := b.Player(playerID)
	if err != nil {
		return err
	}
	if !d.Valid() {
		return fmt.Errorf("%w: direction %q", ErrBlockedCell, d)
	}

	b.playersMu.Lock()
	defer b.playersMu.Unlock()

	if !player.Alive() {
		return ErrPlayerDead
	}

	player.direction = d
	target := player.Cell().Neighbor(d)
	if target == nil {
		return ErrNullCell
	}
	if target.Blocked(false) {
		return ErrBlockedCell
	}

	if occupant := target.Character(); occupant != nil {
		switch other := occupant.(type) {
		case *Player:
			if other.Alive() {
				return ErrBlockedCell
			}
			if other.Revive() {
				b.NotifyPlayers(NewStateEvent(other.Update()))
			}
			return nil
		default:
			// Contact with an enemy kills the player where it stands.
			if player.Die() {
				b.NotifyPlayers(NewStateEvent(player.Update()))
			}
			return nil
		}
	}

	player.Cell().SetCharacter(nil)
	target.SetCharacter(player)
	player.SetCell(target)
	b.consumeFruit(target)
	b.NotifyPlayers(Event{Type: EventUpdateAll, Payload: b.DTO()})
	return nil
}
