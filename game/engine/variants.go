package engine

// The five enemy variants. Each implements exactly one tick of its decision
// algorithm in CalculateMovement; every move failure is swallowed and leaves
// the enemy stopped in place, never failing the tick.

// Wanderer is the aggressive baseline: keep going straight, and when blocked
// try the remaining three directions in random order.
type Wanderer struct {
	*Enemy
}

// CalculateMovement tries the current orientation first, then shuffles the
// other three directions until a step succeeds or all are exhausted.
func (w *Wanderer) CalculateMovement() {
	if err := w.MoveAlongPath(w.direction); err == nil {
		w.setState(StateWalking)
		return
	}

	rest := make([]Direction, 0, 3)
	for _, d := range Directions() {
		if d != w.direction {
			rest = append(rest, d)
		}
	}
	w.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	for _, d := range rest {
		if err := w.MoveAlongPath(d); err == nil {
			w.direction = d
			w.setState(StateWalking)
			return
		}
	}
	w.setState(StateStopped)
}

// DirectPursuer steps along the shortest path toward the nearer player. It
// cannot break ice; with no path it falls back to its current orientation.
type DirectPursuer struct {
	*Enemy
}

// CalculateMovement queries the best single-step direction toward the nearer
// player and takes it, staying in place on failure.
func (p *DirectPursuer) CalculateMovement() {
	dir, ok := p.board.BestPathToPlayers(p.cell)
	if !ok {
		dir = p.direction
	}
	if err := p.MoveAlongPath(dir); err != nil {
		p.setState(StateStopped)
		return
	}
	p.direction = dir
	p.setState(StateWalking)
}

// StraightCharger picks the shorter of the two players' straight
// (no-turn) path prefixes and rolls that distance in one tick, broadcasting
// after every step.
type StraightCharger struct {
	*Enemy
}

// CalculateMovement computes full paths to both players, takes the straight
// prefix of each, and charges along the shorter one. The first obstruction
// ends the roll.
func (c *StraightCharger) CalculateMovement() {
	paths := c.board.PlayersPaths(c.cell, false)

	hostDir, hostLen := straightRun(paths.Host)
	guestDir, guestLen := straightRun(paths.Guest)

	dir, length := hostDir, hostLen
	if hostLen == 0 || (guestLen > 0 && guestLen < hostLen) {
		dir, length = guestDir, guestLen
	}
	if length == 0 {
		c.setState(StateStopped)
		return
	}

	c.direction = dir
	c.setState(StateRolling)
	for i := 0; i < length; i++ {
		if err := c.MoveAlongPath(dir); err != nil {
			c.setState(StateStopped)
			return
		}
		c.board.NotifyPlayers(NewEnemyEvent(c.Update()))
	}
	c.setState(StateStopped)
}

// straightRun returns the direction and length of the longest no-turn prefix
// of a path. An absent or trivial path yields a zero run.
func straightRun(info PathInfo) (Direction, int) {
	if !info.Found || len(info.Path) < 2 {
		return "", 0
	}
	dir, ok := info.Path[0].DirectionTo(info.Path[1])
	if !ok {
		return "", 0
	}
	length := 1
	for i := 1; i < len(info.Path)-1; i++ {
		next, ok := info.Path[i].DirectionTo(info.Path[i+1])
		if !ok || next != dir {
			break
		}
		length++
	}
	return dir, length
}

// AreaUnfreezer thaws every cell around itself, then pursues the nearer
// player breaking ice as it goes.
type AreaUnfreezer struct {
	*Enemy
}

// CalculateMovement performs the exclusive area thaw, broadcasts the change
// set when non-empty, then moves toward the nearer player. An already
// executed thaw is not rolled back when the move fails.
func (a *AreaUnfreezer) CalculateMovement() {
	changed := a.board.thawExclusive(a.cell.UnfreezeAround)
	if len(changed) > 0 {
		a.board.NotifyPlayers(NewFrozenCellsEvent(changed))
	}

	dir, ok := a.board.BestDirectionToPlayers(a.cell, true)
	if !ok {
		a.setState(StateStopped)
		return
	}
	if err := a.MoveAlongPath(dir); err != nil {
		a.setState(StateStopped)
		return
	}
	a.direction = dir
	a.setState(StateWalking)
}

// LineUnfreezer thaws a ray of cells in its chosen direction, then moves the
// same way breaking ice.
type LineUnfreezer struct {
	*Enemy
}

// CalculateMovement picks the pursuit direction, performs the exclusive line
// thaw that way, broadcasts the change set when non-empty, then steps.
func (l *LineUnfreezer) CalculateMovement() {
	dir, ok := l.board.BestDirectionToPlayers(l.cell, true)
	if !ok {
		dir = l.direction
	}

	changed := l.board.thawExclusive(func() []FrozenCellUpdate {
		return l.cell.UnfreezeLine(dir, true)
	})
	if len(changed) > 0 {
		l.board.NotifyPlayers(NewFrozenCellsEvent(changed))
	}

	if err := l.MoveAlongPath(dir); err != nil {
		l.setState(StateStopped)
		return
	}
	l.direction = dir
	l.setState(StateWalking)
}
