package engine

// Cell is a single grid slot. It holds at most one static item and at most
// one character, tracks its frozen flag, and links to its four orthogonal
// neighbors (nil at the board edge). Cells are created once at board load and
// mutated in place for the life of the match.
//
// Cell setters only store; legality of a mutation is the mover's job. None of
// the methods fail, and illegal calls are silent no-ops.
type Cell struct {
	x, y      int
	frozen    bool
	item      Item
	character Character

	up, down, left, right *Cell
}

// NewCell creates an unfrozen, empty cell at the given coordinates. Neighbor
// links are wired by the board after the full grid exists.
func NewCell(x, y int) *Cell {
	return &Cell{x: x, y: y}
}

// Coord returns the cell's grid position.
func (c *Cell) Coord() Coord { return Coord{X: c.x, Y: c.y} }

// Key returns the cell's pathfinding graph node key.
func (c *Cell) Key() string { return c.Coord().Key() }

// Frozen reports whether the cell is currently iced over.
func (c *Cell) Frozen() bool { return c.frozen }

// SetFrozen toggles the frozen flag directly. Gameplay thawing goes through
// UnfreezeAround/UnfreezeLine so changes are collected for broadcast.
func (c *Cell) SetFrozen(frozen bool) { c.frozen = frozen }

// Item returns the cell's static content, nil when empty.
func (c *Cell) Item() Item { return c.item }

// SetItem stores the item slot, nil to clear.
func (c *Cell) SetItem(item Item) { c.item = item }

// Character returns the occupying character handle, nil when vacant.
func (c *Cell) Character() Character { return c.character }

// SetCharacter stores the character slot, nil to vacate. Callers maintain the
// Cell-Character consistency invariant themselves.
func (c *Cell) SetCharacter(ch Character) { c.character = ch }

// Blocked reports whether a mover can never enter this cell: an immovable
// item, or ice the mover cannot break. Occupying characters are not
// considered here; movement validation resolves them.
func (c *Cell) Blocked(canBreakFrozen bool) bool {
	if c.item != nil && c.item.Blocks() {
		return true
	}
	if c.frozen && !canBreakFrozen {
		return true
	}
	return false
}

// PickItem removes and returns a consumable item. Non-consumable or absent
// items are left alone and nil is returned.
func (c *Cell) PickItem() Item {
	if c.item == nil || !c.item.Consumable() {
		return nil
	}
	item := c.item
	c.item = nil
	return item
}

// Neighbor returns the adjacent cell in the given direction, nil at the edge.
func (c *Cell) Neighbor(d Direction) *Cell {
	switch d {
	case Up:
		return c.up
	case Down:
		return c.down
	case Left:
		return c.left
	case Right:
		return c.right
	}
	return nil
}

// link wires one neighbor reference. Called by the board during grid setup.
func (c *Cell) link(d Direction, n *Cell) {
	switch d {
	case Up:
		c.up = n
	case Down:
		c.down = n
	case Left:
		c.left = n
	case Right:
		c.right = n
	}
}

// around returns the up-to-eight surrounding cells, nil-safe at edges.
// Diagonals are reached through two orthogonal hops.
func (c *Cell) around() []*Cell {
	cells := make([]*Cell, 0, 8)
	for _, n := range []*Cell{c.up, c.down, c.left, c.right} {
		if n != nil {
			cells = append(cells, n)
		}
	}
	if c.up != nil {
		if c.up.left != nil {
			cells = append(cells, c.up.left)
		}
		if c.up.right != nil {
			cells = append(cells, c.up.right)
		}
	}
	if c.down != nil {
		if c.down.left != nil {
			cells = append(cells, c.down.left)
		}
		if c.down.right != nil {
			cells = append(cells, c.down.right)
		}
	}
	return cells
}

// UnfreezeAround thaws every frozen cell in the 8-neighborhood and returns
// descriptors of the cells actually changed. Already-thawed cells are
// excluded, so a second consecutive call returns an empty set.
func (c *Cell) UnfreezeAround() []FrozenCellUpdate {
	var changed []FrozenCellUpdate
	for _, n := range c.around() {
		if !n.frozen {
			continue
		}
		n.frozen = false
		changed = append(changed, FrozenCellUpdate{X: n.x, Y: n.y, Frozen: false})
	}
	return changed
}

// UnfreezeLine thaws a ray of cells starting at the neighbor in the given
// direction. With breakAll the ray continues to the board edge; otherwise it
// stops at the first cell that was not frozen. The returned set contains only
// cells actually changed.
func (c *Cell) UnfreezeLine(d Direction, breakAll bool) []FrozenCellUpdate {
	var changed []FrozenCellUpdate
	for n := c.Neighbor(d); n != nil; n = n.Neighbor(d) {
		if !n.frozen {
			if breakAll {
				continue
			}
			break
		}
		n.frozen = false
		changed = append(changed, FrozenCellUpdate{X: n.x, Y: n.y, Frozen: false})
	}
	return changed
}
