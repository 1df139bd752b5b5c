package engine

import "testing"

func TestDirection_Opposite(t *testing.T) {
	tests := []struct {
		d, want Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.want {
			t.Errorf("%s.Opposite() = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestDirection_Delta(t *testing.T) {
	tests := []struct {
		d      Direction
		dx, dy int
	}{
		{Up, 0, -1},
		{Down, 0, 1},
		{Left, -1, 0},
		{Right, 1, 0},
	}
	for _, tt := range tests {
		dx, dy := tt.d.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%s.Delta() = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestDirection_Valid(t *testing.T) {
	for _, d := range Directions() {
		if !d.Valid() {
			t.Errorf("%s should be valid", d)
		}
	}
	if Direction("northwest").Valid() {
		t.Error("unknown direction should be invalid")
	}
	if Direction("").Valid() {
		t.Error("empty direction should be invalid")
	}
}

func TestCoord_Key(t *testing.T) {
	if got := (Coord{X: 3, Y: 7}).Key(); got != "3:7" {
		t.Errorf("expected key 3:7, got %s", got)
	}
	if got := decodeKey("3:7"); got != (Coord{X: 3, Y: 7}) {
		t.Errorf("expected decoded (3,7), got %v", got)
	}
}

func TestCoord_DirectionTo(t *testing.T) {
	from := Coord{X: 2, Y: 2}
	tests := []struct {
		to   Coord
		want Direction
		ok   bool
	}{
		{Coord{X: 2, Y: 1}, Up, true},
		{Coord{X: 2, Y: 3}, Down, true},
		{Coord{X: 1, Y: 2}, Left, true},
		{Coord{X: 3, Y: 2}, Right, true},
		{Coord{X: 3, Y: 3}, "", false},
		{Coord{X: 2, Y: 2}, "", false},
		{Coord{X: 5, Y: 2}, "", false},
	}
	for _, tt := range tests {
		got, ok := from.DirectionTo(tt.to)
		if ok != tt.ok || got != tt.want {
			t.Errorf("DirectionTo(%v) = (%s,%v), want (%s,%v)", tt.to, got, ok, tt.want, tt.ok)
		}
	}
}
