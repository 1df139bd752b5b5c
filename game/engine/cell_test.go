package engine

import "testing"

func TestCell_Blocked(t *testing.T) {
	tests := []struct {
		name           string
		item           Item
		frozen         bool
		canBreakFrozen bool
		want           bool
	}{
		{"empty floor", nil, false, false, false},
		{"rock", &Rock{}, false, false, true},
		{"fruit never blocks", &Fruit{Kind: FruitBanana}, false, false, false},
		{"ice blocks non-breakers", nil, true, false, true},
		{"ice passable for breakers", nil, true, true, false},
		{"rock blocks breakers too", &Rock{}, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCell(0, 0)
			c.SetItem(tt.item)
			c.SetFrozen(tt.frozen)
			if got := c.Blocked(tt.canBreakFrozen); got != tt.want {
				t.Errorf("Blocked(%v) = %v, want %v", tt.canBreakFrozen, got, tt.want)
			}
		})
	}
}

func TestCell_PickItem(t *testing.T) {
	c := NewCell(0, 0)

	if c.PickItem() != nil {
		t.Error("expected nil from empty cell")
	}

	c.SetItem(&Rock{})
	if c.PickItem() != nil {
		t.Error("rocks must not be pickable")
	}
	if c.Item() == nil {
		t.Error("rock must stay in place after a pick attempt")
	}

	c.SetItem(&Fruit{Kind: FruitCherry})
	item := c.PickItem()
	if item == nil || item.Type() != ItemFruit {
		t.Fatalf("expected picked fruit, got %v", item)
	}
	if c.Item() != nil {
		t.Error("picked fruit must leave the cell empty")
	}
}

func TestCell_UnfreezeAround(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"#######",
		"#***..#",
		"#*.*..#",
		"#***..#",
		"#1.2F.#",
		"#######",
	))

	center := b.CellAt(2, 2)
	changed := center.UnfreezeAround()
	if len(changed) != 8 {
		t.Fatalf("expected 8 thawed cells, got %d", len(changed))
	}
	for _, fc := range changed {
		if fc.Frozen {
			t.Errorf("change set entry (%d,%d) still frozen", fc.X, fc.Y)
		}
		if b.CellAt(fc.X, fc.Y).Frozen() {
			t.Errorf("cell (%d,%d) not actually thawed", fc.X, fc.Y)
		}
	}

	if again := center.UnfreezeAround(); len(again) != 0 {
		t.Errorf("second thaw must be empty, got %d changes", len(again))
	}
}

func TestCell_UnfreezeLine(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"#######",
		"#.*.*.#",
		"#.*.*.#",
		"#1.2F.#",
		"#######",
	))

	// Without breakAll the ray stops at the first thawed cell.
	changed := b.CellAt(1, 1).UnfreezeLine(Right, false)
	if len(changed) != 1 {
		t.Fatalf("expected 1 thawed cell, got %d", len(changed))
	}
	if !b.CellAt(4, 1).Frozen() {
		t.Error("ray must stop before the second ice patch")
	}

	// With breakAll the ray continues to the board edge.
	changed = b.CellAt(1, 2).UnfreezeLine(Right, true)
	if len(changed) != 2 {
		t.Fatalf("expected 2 thawed cells, got %d", len(changed))
	}
	if b.CellAt(2, 2).Frozen() || b.CellAt(4, 2).Frozen() {
		t.Error("both ice patches must thaw")
	}
}

func TestCell_NeighborLinks(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"####",
		"#12#",
		"#F.#",
		"####",
	))

	c := b.CellAt(1, 1)
	if c.Neighbor(Right) != b.CellAt(2, 1) {
		t.Error("right neighbor mismatch")
	}
	if c.Neighbor(Down) != b.CellAt(1, 2) {
		t.Error("down neighbor mismatch")
	}

	corner := b.CellAt(0, 0)
	if corner.Neighbor(Up) != nil || corner.Neighbor(Left) != nil {
		t.Error("expected nil neighbors at the board edge")
	}
}
