package engine

// Player is a human-controlled character. Its move validation mirrors the
// enemy contract: the same null/blocked taxonomy, the same cell swap.
type Player struct {
	id        string
	color     string
	cell      *Cell
	direction Direction
	state     PlayerState
}

// NewPlayer creates a living player facing down.
func NewPlayer(id, color string) *Player {
	return &Player{id: id, color: color, direction: Down, state: PlayerAlive}
}

func (p *Player) ID() string           { return p.id }
func (p *Player) Color() string        { return p.color }
func (p *Player) Cell() *Cell          { return p.cell }
func (p *Player) SetCell(c *Cell)      { p.cell = c }
func (p *Player) Direction() Direction { return p.direction }
func (p *Player) State() PlayerState   { return p.state }

// Alive reports whether the player is still in play.
func (p *Player) Alive() bool { return p.state == PlayerAlive }

// Killable implements Character. Players can be caught by enemies.
func (p *Player) Killable() bool { return true }

// Die marks the player dead, reporting whether the state changed. A player
// already dead stays dead and reports false.
func (p *Player) Die() bool {
	if p.state == PlayerDead {
		return false
	}
	p.state = PlayerDead
	return true
}

// Revive brings a dead player back, reporting whether the state changed.
func (p *Player) Revive() bool {
	if p.state == PlayerAlive {
		return false
	}
	p.state = PlayerAlive
	return true
}

// Update produces the player's broadcast descriptor.
func (p *Player) Update() StateUpdate {
	return StateUpdate{PlayerID: p.id, State: p.state, Color: p.color}
}

// PlayerDTO is the serializable player descriptor used in full snapshots.
type PlayerDTO struct {
	ID          string      `json:"id"`
	Color       string      `json:"color,omitempty"`
	Coordinates Coord       `json:"coordinates"`
	Direction   Direction   `json:"direction"`
	State       PlayerState `json:"state"`
}

// DTO returns the player's snapshot descriptor.
func (p *Player) DTO() PlayerDTO {
	dto := PlayerDTO{
		ID:        p.id,
		Color:     p.color,
		Direction: p.direction,
		State:     p.state,
	}
	if p.cell != nil {
		dto.Coordinates = p.cell.Coord()
	}
	return dto
}
